// Package fileshare copies files between S3 and Windows (SMB2) file shares.
package fileshare

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/hirochachacha/go-smb2"
	"github.com/pkg/errors"
	"github.com/relloyd/dpu/constants"
	"github.com/relloyd/dpu/errs"
	"github.com/relloyd/dpu/helper"
	"github.com/relloyd/dpu/logger"
)

const dialTimeout = 30 * time.Second

// ClientConfig holds the details needed to log on to a file server.
type ClientConfig struct {
	Username    string `errorTxt:"share username" mandatory:"yes"`
	Password    string `errorTxt:"share password" mandatory:"yes"`
	Domain      string
	ServerIp    string `errorTxt:"share server IP" mandatory:"yes"`
	ServerName  string // defaults to ServerIp.
	Workstation string // defaults to constants.ShareWorkstationNameDefault.
	Port        int    // defaults to constants.SharePortDefault.
}

// FileShare is implemented by Client.
type FileShare interface {
	ListShares(ctx context.Context) ([]string, error)
	ListFiles(ctx context.Context, share string, folder string) ([]string, error)
	Upload(ctx context.Context, share string, localFile string, remoteFolder string, remoteName string) error
	Download(ctx context.Context, share string, remotePath string, w io.Writer) (int64, error)
	Close() error
}

type Client struct {
	log     logger.Logger
	cfg     ClientConfig
	conn    net.Conn
	session *smb2.Session
}

// NewClient connects to the server over direct TCP and authenticates with NTLM.
func NewClient(ctx context.Context, log logger.Logger, cfg ClientConfig) (*Client, error) {
	if err := helper.ValidateStructIsPopulated(cfg); err != nil {
		return nil, errs.NewConfigurationError("file share", "%v", err)
	}
	if cfg.ServerName == "" {
		cfg.ServerName = cfg.ServerIp
	}
	if cfg.Workstation == "" {
		cfg.Workstation = constants.ShareWorkstationNameDefault
	}
	if cfg.Port == 0 {
		cfg.Port = constants.SharePortDefault
	}
	addr := net.JoinHostPort(cfg.ServerIp, fmt.Sprintf("%v", cfg.Port))
	d := net.Dialer{Timeout: dialTimeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, errs.External("file share", "connect", err)
	}
	smbDialer := &smb2.Dialer{
		Initiator: &smb2.NTLMInitiator{
			User:        cfg.Username,
			Password:    cfg.Password,
			Domain:      cfg.Domain,
			Workstation: cfg.Workstation,
		},
	}
	s, err := smbDialer.DialContext(ctx, conn)
	if err != nil {
		_ = conn.Close()
		return nil, errs.External("file share", "logon", err)
	}
	log.Debug("connected to file server ", addr, " as ", cfg.Username)
	return &Client{log: log, cfg: cfg, conn: conn, session: s}, nil
}

func (c *Client) ListShares(ctx context.Context) ([]string, error) {
	names, err := c.session.WithContext(ctx).ListSharenames()
	if err != nil {
		return nil, errs.External("file share", "list shares", err)
	}
	c.log.Info("shares: ", names)
	return names, nil
}

func (c *Client) ListFiles(ctx context.Context, share string, folder string) ([]string, error) {
	fs, err := c.mount(ctx, share)
	if err != nil {
		return nil, err
	}
	defer fs.Umount()
	infos, err := fs.ReadDir(sharePath(folder))
	if err != nil {
		return nil, errs.External("file share", "list files", err)
	}
	names := make([]string, 0, len(infos))
	for _, fi := range infos {
		names = append(names, fi.Name())
	}
	c.log.Info("files in ", share, "/", folder, ": ", names)
	return names, nil
}

// Upload copies localFile to remoteFolder/remoteName on share.
// The remote name defaults to the base name of the local file.
func (c *Client) Upload(ctx context.Context, share string, localFile string, remoteFolder string, remoteName string) error {
	src, err := os.Open(localFile)
	if err != nil {
		return errors.Wrapf(err, "error opening %v", localFile)
	}
	defer src.Close()
	if remoteName == "" {
		remoteName = filepath.Base(localFile)
	}
	fs, err := c.mount(ctx, share)
	if err != nil {
		return err
	}
	defer fs.Umount()
	target := sharePath(path.Join(remoteFolder, remoteName))
	dst, err := fs.Create(target)
	if err != nil {
		return errs.External("file share", "create "+target, err)
	}
	n, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return errs.External("file share", "write "+target, err)
	}
	c.log.Info("uploaded ", n, " bytes to ", share, `\`, target)
	return nil
}

// Download writes the remote file to w.
func (c *Client) Download(ctx context.Context, share string, remotePath string, w io.Writer) (int64, error) {
	fs, err := c.mount(ctx, share)
	if err != nil {
		return 0, err
	}
	defer fs.Umount()
	p := sharePath(remotePath)
	f, err := fs.Open(p)
	if err != nil {
		return 0, errs.External("file share", "open "+p, err)
	}
	defer f.Close()
	n, err := io.Copy(w, f)
	if err != nil {
		return n, errs.External("file share", "read "+p, err)
	}
	return n, nil
}

func (c *Client) Close() error {
	err := c.session.Logoff()
	if cerr := c.conn.Close(); err == nil {
		err = cerr
	}
	return err
}

func (c *Client) mount(ctx context.Context, share string) (*smb2.Share, error) {
	fs, err := c.session.WithContext(ctx).Mount(fmt.Sprintf(`\\%v\%v`, c.cfg.ServerName, share))
	if err != nil {
		return nil, errs.External("file share", "mount "+share, err)
	}
	return fs.WithContext(ctx), nil
}

// sharePath converts a slash separated path into one relative to the share root.
func sharePath(p string) string {
	p = strings.Trim(strings.ReplaceAll(p, "/", `\`), `\`)
	return p
}

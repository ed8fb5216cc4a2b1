package cmd

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/relloyd/dpu/aws/s3"
	"github.com/relloyd/dpu/aws/secrets"
	c "github.com/relloyd/dpu/constants"
	"github.com/relloyd/dpu/fileshare"
	"github.com/relloyd/dpu/helper"
	"github.com/spf13/cobra"
)

var shareCmd = &cobra.Command{
	Use:   c.ActionFuncsCommandShare,
	Short: "List and copy files on Windows file shares",
}

type shareConfig struct {
	LogLevel   string
	AwsRegion  string
	ServerIp   string
	ServerName string
	User       string
	Password   string
	Domain     string
	Secret     string
	Share      string
	Folder     string
	RemoteName string
	RemotePath string
	LocalFile  string
	S3Bucket   string
	S3Key      string
}

// shareCredentials is the shape of the optional file server secret.
type shareCredentials struct {
	Username string `mapstructure:"username" errorTxt:"username" mandatory:"yes"`
	Password string `mapstructure:"password" errorTxt:"password" mandatory:"yes"`
}

var shareCfg = shareConfig{}

var shareListSharesCmd = &cobra.Command{
	Use:   "list-shares",
	Short: "Print the shares available on a file server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withShareClient(func(ctx context.Context, _ *session.Session, fs fileshare.FileShare) error {
			names, err := fs.ListShares(ctx)
			for _, n := range names {
				fmt.Println(n)
			}
			return err
		})
	},
}

var shareListFilesCmd = &cobra.Command{
	Use:   "list-files",
	Short: "Print the files in a folder on a share",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireFlags(map[string]string{"share": shareCfg.Share}); err != nil {
			return err
		}
		return withShareClient(func(ctx context.Context, _ *session.Session, fs fileshare.FileShare) error {
			names, err := fs.ListFiles(ctx, shareCfg.Share, shareCfg.Folder)
			for _, n := range names {
				fmt.Println(n)
			}
			return err
		})
	},
}

var shareUploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload a local file to a folder on a share",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireFlags(map[string]string{"share": shareCfg.Share, "local-file": shareCfg.LocalFile}); err != nil {
			return err
		}
		return withShareClient(func(ctx context.Context, _ *session.Session, fs fileshare.FileShare) error {
			return fs.Upload(ctx, shareCfg.Share, shareCfg.LocalFile, shareCfg.Folder, shareCfg.RemoteName)
		})
	},
}

var shareS3ToShareCmd = &cobra.Command{
	Use:   c.ActionFuncsSubCommandS3Share,
	Short: "Copy an S3 object to a folder on a share",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShareS3ToShare()
	},
}

var shareShareToS3Cmd = &cobra.Command{
	Use:   c.ActionFuncsSubCommandShareS3,
	Short: "Copy a file on a share to S3",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShareShareToS3()
	},
}

func init() {
	rootCmd.AddCommand(shareCmd)
	for _, sc := range []*cobra.Command{shareListSharesCmd, shareListFilesCmd, shareUploadCmd, shareS3ToShareCmd, shareShareToS3Cmd} {
		shareCmd.AddCommand(sc)
		sc.Flags().SortFlags = false
		addShareConnectionFlags(sc)
	}
	switches.addFlag(shareListFilesCmd, &shareCfg.Share, "share", "", true, "")
	switches.addFlag(shareListFilesCmd, &shareCfg.Folder, "folder", "", false, "")

	switches.addFlag(shareUploadCmd, &shareCfg.Share, "share", "", true, "")
	switches.addFlag(shareUploadCmd, &shareCfg.LocalFile, "local-file", "", true, "")
	switches.addFlag(shareUploadCmd, &shareCfg.Folder, "folder", "", false, "")
	switches.addFlag(shareUploadCmd, &shareCfg.RemoteName, "remote-name", "", false, "")

	switches.addFlag(shareS3ToShareCmd, &shareCfg.S3Bucket, "s3-bucket", "", true, "")
	switches.addFlag(shareS3ToShareCmd, &shareCfg.S3Key, "s3-key", "", true, "")
	switches.addFlag(shareS3ToShareCmd, &shareCfg.Share, "share", "", true, "")
	switches.addFlag(shareS3ToShareCmd, &shareCfg.Folder, "folder", "", false, "")
	switches.addFlag(shareS3ToShareCmd, &shareCfg.RemoteName, "remote-name", "", false, "")

	switches.addFlag(shareShareToS3Cmd, &shareCfg.Share, "share", "", true, "")
	switches.addFlag(shareShareToS3Cmd, &shareCfg.RemotePath, "remote-path", "", true, "")
	switches.addFlag(shareShareToS3Cmd, &shareCfg.S3Bucket, "s3-bucket", "", true, "")
	switches.addFlag(shareShareToS3Cmd, &shareCfg.S3Key, "s3-key", "", true, "")
}

func addShareConnectionFlags(sc *cobra.Command) {
	switches.addFlag(sc, &shareCfg.ServerIp, "share-server-ip", "", true, "")
	switches.addFlag(sc, &shareCfg.ServerName, "share-server-name", "", false, "")
	switches.addFlag(sc, &shareCfg.User, "share-user", "", false, "")
	switches.addFlag(sc, &shareCfg.Password, "share-password", "", false, "")
	switches.addFlag(sc, &shareCfg.Domain, "share-domain", "", false, "")
	switches.addFlag(sc, &shareCfg.Secret, "share-secret", "", false, "")
	switches.addFlag(sc, &shareCfg.AwsRegion, "aws-region", "", false, "")
	switches.addFlag(sc, &shareCfg.LogLevel, "log-level", "warn", false, "")
}

// resolveShareCredentials returns the user and password from the flags, or from the secret if one is named.
func resolveShareCredentials(ctx context.Context, sm secrets.SecretMapGetter, cfg shareConfig) (shareCredentials, error) {
	creds := shareCredentials{Username: cfg.User, Password: cfg.Password}
	if cfg.Secret != "" {
		m, err := sm.GetSecretMap(ctx, cfg.Secret)
		if err != nil {
			return creds, err
		}
		creds = shareCredentials{}
		if err = mapstructure.WeakDecode(m, &creds); err != nil {
			return creds, errors.Wrapf(err, "error decoding secret %v", cfg.Secret)
		}
	}
	if err := helper.ValidateStructIsPopulated(creds); err != nil {
		return creds, errors.Wrap(err, "file share credentials")
	}
	return creds, nil
}

// withShareClient connects to the file server using shareCfg, calls fn and closes the connection.
func withShareClient(fn func(ctx context.Context, sess *session.Session, fs fileshare.FileShare) error) error {
	cfg := shareCfg
	if err := requireFlags(map[string]string{"share-server-ip": cfg.ServerIp}); err != nil {
		return err
	}
	log := newLogger("dpu-share", cfg.LogLevel)
	ctx := context.Background()
	sess, err := newAwsSession(cfg.AwsRegion)
	if err != nil {
		return err
	}
	creds, err := resolveShareCredentials(ctx, secrets.NewClient(sess), cfg)
	if err != nil {
		return err
	}
	client, err := fileshare.NewClient(ctx, log, fileshare.ClientConfig{
		Username:   creds.Username,
		Password:   creds.Password,
		Domain:     cfg.Domain,
		ServerIp:   cfg.ServerIp,
		ServerName: cfg.ServerName,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Close(); err != nil {
			log.Warn("error closing file share connection: ", err)
		}
	}()
	return fn(ctx, sess, client)
}

func newS3Transfer(sess *session.Session, fs fileshare.FileShare) *fileshare.S3Transfer {
	return &fileshare.S3Transfer{
		Log:     newLogger("dpu-share", shareCfg.LogLevel),
		Share:   fs,
		Objects: func(bucket string) fileshare.ObjectStore { return s3.NewBasicClient(sess, bucket, "") },
	}
}

func runShareS3ToShare() error {
	if err := requireFlags(map[string]string{"s3-bucket": shareCfg.S3Bucket, "s3-key": shareCfg.S3Key, "share": shareCfg.Share}); err != nil {
		return err
	}
	return withShareClient(func(ctx context.Context, sess *session.Session, fs fileshare.FileShare) error {
		return newS3Transfer(sess, fs).S3ToShare(ctx, shareCfg.S3Bucket, shareCfg.S3Key, shareCfg.Share, shareCfg.Folder, shareCfg.RemoteName)
	})
}

func runShareShareToS3() error {
	if err := requireFlags(map[string]string{
		"share":       shareCfg.Share,
		"remote-path": shareCfg.RemotePath,
		"s3-bucket":   shareCfg.S3Bucket,
		"s3-key":      shareCfg.S3Key,
	}); err != nil {
		return err
	}
	return withShareClient(func(ctx context.Context, sess *session.Session, fs fileshare.FileShare) error {
		return newS3Transfer(sess, fs).ShareToS3(ctx, shareCfg.Share, shareCfg.RemotePath, shareCfg.S3Bucket, shareCfg.S3Key)
	})
}

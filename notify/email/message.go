// Package email builds MIME messages and sends them through SES, optionally attaching files from S3.
package email

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io/ioutil"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/textproto"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
	"github.com/relloyd/dpu/helper"
)

// Message is an email to one or more recipients.
// Sender and recipients may be plain addresses or of the form 'The Name <the_email@host.com>'.
type Message struct {
	From        string   `errorTxt:"sender" mandatory:"yes"`
	To          []string `errorTxt:"recipients" mandatory:"yes"`
	Subject     string   `errorTxt:"subject" mandatory:"yes"`
	Text        string
	Html        string
	Attachments []string // local file paths.
}

const base64LineLen = 76

// BuildMessage renders m as a multipart MIME document.
// The subtype is alternative when both text and html bodies are present, else mixed.
func BuildMessage(m Message) ([]byte, error) {
	if err := helper.ValidateStructIsPopulated(m); err != nil {
		return nil, err
	}
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	if m.Text != "" {
		if err := writeTextPart(w, "text/plain", m.Text); err != nil {
			return nil, err
		}
	}
	if m.Html != "" { // the last part is the preferred one.
		if err := writeTextPart(w, "text/html", m.Html); err != nil {
			return nil, err
		}
	}
	for _, a := range m.Attachments {
		if err := writeAttachment(w, a); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	subtype := "mixed"
	if m.Text != "" && m.Html != "" {
		subtype = "alternative"
	}
	out := &bytes.Buffer{}
	fmt.Fprintf(out, "Subject: %v\r\n", mime.QEncoding.Encode("utf-8", m.Subject))
	fmt.Fprintf(out, "From: %v\r\n", m.From)
	fmt.Fprintf(out, "To: %v\r\n", strings.Join(m.To, ", "))
	fmt.Fprintf(out, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(out, "Content-Type: multipart/%v; boundary=%q\r\n\r\n", subtype, w.Boundary())
	out.Write(body.Bytes())
	return out.Bytes(), nil
}

func writeTextPart(w *multipart.Writer, contentType string, s string) error {
	h := textproto.MIMEHeader{}
	h.Set("Content-Type", contentType+`; charset="utf-8"`)
	h.Set("Content-Transfer-Encoding", "quoted-printable")
	p, err := w.CreatePart(h)
	if err != nil {
		return err
	}
	qp := quotedprintable.NewWriter(p)
	if _, err = qp.Write([]byte(s)); err != nil {
		return err
	}
	return qp.Close()
}

func writeAttachment(w *multipart.Writer, path string) error {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "error reading attachment %v", path)
	}
	h := textproto.MIMEHeader{}
	h.Set("Content-Type", mimetype.Detect(b).String())
	h.Set("Content-Transfer-Encoding", "base64")
	h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filepath.Base(path)}))
	p, err := w.CreatePart(h)
	if err != nil {
		return err
	}
	enc := base64.StdEncoding.EncodeToString(b)
	for len(enc) > base64LineLen {
		if _, err = fmt.Fprintf(p, "%v\r\n", enc[:base64LineLen]); err != nil {
			return err
		}
		enc = enc[base64LineLen:]
	}
	_, err = fmt.Fprintf(p, "%v\r\n", enc)
	return err
}

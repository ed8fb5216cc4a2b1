package cmd

import (
	"context"
	"fmt"

	"github.com/relloyd/dpu/aws/s3"
	"github.com/relloyd/dpu/aws/ses"
	c "github.com/relloyd/dpu/constants"
	"github.com/relloyd/dpu/helper"
	"github.com/relloyd/dpu/notify/email"
	"github.com/spf13/cobra"
)

var emailCmd = &cobra.Command{
	Use:   c.ActionFuncsCommandEmail,
	Short: "Send email notifications through Amazon SES",
}

type emailSendConfig struct {
	LogLevel    string
	AwsRegion   string
	From        string
	To          string
	Subject     string
	Text        string
	Html        string
	Attachments string
	IdentityArn string
	S3Bucket    string
	S3Keys      string
}

var emailSendCfg = emailSendConfig{}

var emailSendCmd = &cobra.Command{
	Use:   c.ActionFuncsSubCommandSend,
	Short: "Send one email to all recipients, optionally attaching local files or S3 objects",
	Long: `Send one email to all recipients.

Use --attachments for local files. Use --s3-bucket and --s3-keys to attach objects from S3;
keys that do not exist are skipped and, if none exist, the bodies are prefixed with a note
saying that no data is available.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEmailSend()
	},
}

func init() {
	rootCmd.AddCommand(emailCmd)
	emailCmd.AddCommand(emailSendCmd)
	emailSendCmd.Flags().SortFlags = false
	switches.addFlag(emailSendCmd, &emailSendCfg.From, "from", "", true, "")
	switches.addFlag(emailSendCmd, &emailSendCfg.To, "to", "", true, "")
	switches.addFlag(emailSendCmd, &emailSendCfg.Subject, "subject", "", true, "")
	switches.addFlag(emailSendCmd, &emailSendCfg.Text, "text", "", false, "")
	switches.addFlag(emailSendCmd, &emailSendCfg.Html, "html", "", false, "")
	switches.addFlag(emailSendCmd, &emailSendCfg.Attachments, "attachments", "", false, "")
	switches.addFlag(emailSendCmd, &emailSendCfg.S3Bucket, "s3-bucket", "", false, "")
	switches.addFlag(emailSendCmd, &emailSendCfg.S3Keys, "s3-keys", "", false, "")
	switches.addFlag(emailSendCmd, &emailSendCfg.IdentityArn, "identity-arn", c.EmailSourceArnDefault, false, "")
	switches.addFlag(emailSendCmd, &emailSendCfg.AwsRegion, "aws-region", "", false, "")
	switches.addFlag(emailSendCmd, &emailSendCfg.LogLevel, "log-level", "info", false, "")
}

func (cfg emailSendConfig) message() email.Message {
	m := email.Message{
		From:    cfg.From,
		To:      helper.CsvToStringSliceTrimSpaces(cfg.To),
		Subject: cfg.Subject,
		Text:    cfg.Text,
		Html:    cfg.Html,
	}
	if cfg.Attachments != "" {
		m.Attachments = helper.CsvToStringSliceTrimSpaces(cfg.Attachments)
	}
	return m
}

func runEmailSend() error {
	cfg := emailSendCfg
	if err := requireFlags(map[string]string{"from": cfg.From, "to": cfg.To, "subject": cfg.Subject}); err != nil {
		return err
	}
	if cfg.S3Keys != "" && cfg.S3Bucket == "" {
		return fmt.Errorf("please supply a value for %v when using S3 attachments", helper.FlagNameToEnvVar("s3-bucket"))
	}
	log := newLogger("dpu-email", cfg.LogLevel)
	sess, err := newAwsSession(cfg.AwsRegion)
	if err != nil {
		return err
	}
	sender := &email.Sender{
		Log:         log,
		SES:         ses.NewClient(sess),
		Objects:     func(bucket string) email.ObjectFetcher { return s3.NewBasicClient(sess, bucket, "") },
		IdentityArn: cfg.IdentityArn,
	}
	ctx := context.Background()
	var id string
	if cfg.S3Bucket != "" && cfg.S3Keys != "" {
		id, err = sender.SendWithS3Attachments(ctx, cfg.message(), cfg.S3Bucket, helper.CsvToStringSliceTrimSpaces(cfg.S3Keys))
	} else {
		id, err = sender.Send(ctx, cfg.message())
	}
	if err != nil {
		return err
	}
	fmt.Println(id)
	return nil
}

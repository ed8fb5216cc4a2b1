package cmd

import (
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/pkg/errors"
	"github.com/relloyd/dpu/aws/secrets"
	"github.com/relloyd/dpu/config"
	"github.com/relloyd/dpu/errs"
	"github.com/relloyd/dpu/logger"
	"github.com/relloyd/dpu/tablesync"
)

// newAwsSession returns a session using the standard credential chain and shared config.
// An empty region falls back to AWS_REGION or the shared config.
func newAwsSession(region string) (*session.Session, error) {
	cfg := aws.Config{}
	if region != "" {
		cfg.Region = aws.String(region)
	}
	sess, err := session.NewSessionWithOptions(session.Options{
		Config:            cfg,
		SharedConfigState: session.SharedConfigEnable,
	})
	if err != nil {
		return nil, errs.External("aws", "new session", err)
	}
	return sess, nil
}

// loadRegistry reads the connections file at path, or the default file if path is empty.
func loadRegistry(path string) (*config.Registry, error) {
	var f *config.File
	if path != "" {
		f = config.NewConfigFile(path)
	} else {
		var err error
		if f, err = config.DefaultConnectionsFile(); err != nil {
			return nil, err
		}
	}
	r, err := config.LoadRegistry(f)
	if err != nil {
		return nil, errors.Wrap(err, "error loading connections")
	}
	return r, nil
}

func newProfileCache(sess *session.Session, connectionsFile string) (*tablesync.ProfileCache, error) {
	r, err := loadRegistry(connectionsFile)
	if err != nil {
		return nil, err
	}
	return tablesync.NewProfileCache(r, secrets.NewCachingClient(secrets.NewClient(sess))), nil
}

// newLogger writes JSON in twelveFactorMode, else lets the logger pick a format for the terminal.
func newLogger(service string, level string) logger.Logger {
	if twelveFactorMode {
		return logger.NewJsonLogger(service, level, stackDumpOnPanic)
	}
	return logger.NewLogger(service, level, stackDumpOnPanic)
}

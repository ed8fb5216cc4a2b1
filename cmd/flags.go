package cmd

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/relloyd/dpu/helper"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type cliFlag struct {
	name      string // name of flag
	val       string // default value
	shortHand string // single character name for the flag
	desc      string // description of the flag; the long text
}

type cliFlags map[string]cliFlag

var switches = cliFlags{
	"mock": cliFlag{name: "mock", shortHand: "m", desc: "mock switch for testing"},
	"log-level": cliFlag{name: "log-level", shortHand: "l",
		desc: "Log level: \"error | warn | info | debug | trace\""},
	"aws-region": cliFlag{name: "aws-region", shortHand: "R",
		desc: "AWS region used for S3, Secrets Manager, Glue and SES (or set AWS_REGION)"},
	"connections-file": cliFlag{name: "connections-file", shortHand: "C",
		desc: "YAML file mapping connection names to a type and secret id\n" +
			"(default: $DPU_CONNECTIONS_FILE or ~/.dpu/connections.yaml)"},
	// sync
	"table-list": cliFlag{name: "table-list", shortHand: "t",
		desc: "S3 URL of the YAML table list, of the form s3://<bucket>/<key>"},
	"job-name": cliFlag{name: "job-name", shortHand: "j",
		desc: "Glue job name whose run history supplies the watermark"},
	"watermark": cliFlag{name: "watermark", shortHand: "w",
		desc: "Watermark override of the form 'YYYY-MM-DD HH:MM:SS'. Use \"N\" or leave blank \n" +
			"to start from the last successful run of the job"},
	"source-connection": cliFlag{name: "source-connection", shortHand: "s",
		desc: "Name of the source connection in the connections file"},
	"target-connection": cliFlag{name: "target-connection", shortHand: "T",
		desc: "Name of the warehouse connection in the connections file"},
	"batch-size": cliFlag{name: "batch-size", shortHand: "B",
		desc: "Number of rows combined into a single INSERT statement"},
	// email
	"from": cliFlag{name: "from", shortHand: "f",
		desc: "Sender address, e.g. 'The Name <the_email@host.com>'"},
	"to": cliFlag{name: "to", shortHand: "t",
		desc: "CSV list of recipient addresses"},
	"subject": cliFlag{name: "subject", shortHand: "s", desc: "Email subject"},
	"text":    cliFlag{name: "text", shortHand: "x", desc: "Plain text body"},
	"html":    cliFlag{name: "html", shortHand: "H", desc: "HTML body"},
	"attachments": cliFlag{name: "attachments", shortHand: "a",
		desc: "CSV list of local files to attach"},
	"identity-arn": cliFlag{name: "identity-arn", shortHand: "i",
		desc: "SES sending authorisation identity ARN"},
	"s3-bucket": cliFlag{name: "s3-bucket", shortHand: "b",
		desc: "AWS S3 bucket name"},
	"s3-keys": cliFlag{name: "s3-keys", shortHand: "k",
		desc: "CSV list of S3 keys to attach; keys that do not exist are skipped"},
	"s3-key": cliFlag{name: "s3-key", shortHand: "k",
		desc: "AWS S3 object key"},
	// alert
	"webhook-url": cliFlag{name: "webhook-url", shortHand: "u",
		desc: "Microsoft Teams incoming webhook URL"},
	"status": cliFlag{name: "status", shortHand: "S",
		desc: "Task outcome: \"success\" or \"failure\""},
	"dag-id":  cliFlag{name: "dag-id", shortHand: "d", desc: "Scheduler DAG id"},
	"run-id":  cliFlag{name: "run-id", shortHand: "r", desc: "Scheduler run id"},
	"task-id": cliFlag{name: "task-id", shortHand: "t", desc: "Scheduler task id"},
	// share
	"share-server-ip": cliFlag{name: "share-server-ip", shortHand: "I",
		desc: "IP address of the file server"},
	"share-server-name": cliFlag{name: "share-server-name", shortHand: "N",
		desc: "NetBIOS name of the file server (defaults to its IP address)"},
	"share-user":     cliFlag{name: "share-user", shortHand: "U", desc: "Windows user name"},
	"share-password": cliFlag{name: "share-password", shortHand: "P", desc: "Windows password"},
	"share-domain":   cliFlag{name: "share-domain", shortHand: "D", desc: "Windows domain (omit to use default)"},
	"share-secret": cliFlag{name: "share-secret", shortHand: "X",
		desc: "Secrets Manager secret id holding the username and password for the file server \n" +
			"(takes priority over user and password flags)"},
	"share": cliFlag{name: "share", shortHand: "n", desc: "Share name"},
	"folder": cliFlag{name: "folder", shortHand: "F",
		desc: "Folder on the share"},
	"remote-name": cliFlag{name: "remote-name", shortHand: "o",
		desc: "File name to write on the share (defaults to the source file name)"},
	"remote-path": cliFlag{name: "remote-path", shortHand: "p",
		desc: "Path of the file on the share"},
	"local-file": cliFlag{name: "local-file", shortHand: "L",
		desc: "Local file to upload"},
	// query
	"dry-run": cliFlag{name: "dry-run", shortHand: "d",
		desc: "Print the SQL query without executing it"},
	"print-header": cliFlag{name: "print-header", shortHand: "x",
		desc: "Print a header for SQL query results"},
}

// addFlag add a flag to cobra.Command c, based on the type of targetVar (which must be a pointer).
// The name of the flag is looked up in map, cliFlags.
// When running in twelveFactorMode, the targetVar is populated using the value of environment variable for the supplied
// name, or if not set then the supplied default value is used.
// The flag is marked as required in Cobra based on the value of required.
// Supply a value for desc2 to append to the existing description found in map cliFlags.
func (f *cliFlags) addFlag(c *cobra.Command, targetVar interface{}, name string, defaultValue string, required bool, desc2 string) {
	v := reflect.ValueOf(targetVar)
	if v.Kind() != reflect.Ptr {
		fmt.Println("error adding flag: targetVar must be a pointer")
		os.Exit(1)
	}
	sw := f.getCliFlag(name, defaultValue)
	desc := sw.desc + desc2
	switch p := targetVar.(type) {
	case *string:
		if twelveFactorMode {
			*p = sw.val
		} else {
			c.Flags().StringVarP(p, sw.name, sw.shortHand, sw.val, desc)
		}
	case *bool:
		if twelveFactorMode {
			*p = helper.GetTrueFalseStringAsBool(sw.val) || sw.val == "1"
		} else {
			c.Flags().BoolVarP(p, sw.name, sw.shortHand, helper.GetTrueFalseStringAsBool(sw.val), desc)
		}
	case *int:
		defaultInt := 0
		if sw.val != "" {
			var err error
			if defaultInt, err = strconv.Atoi(sw.val); err != nil {
				fmt.Printf("the value for flag %q must be an integer: %v\n", sw.name, err)
				os.Exit(1)
			}
		}
		if twelveFactorMode {
			*p = defaultInt
		} else {
			c.Flags().IntVarP(p, sw.name, sw.shortHand, defaultInt, desc)
		}
	default:
		panic("Error: unhandled CLI flag target value type")
	}
	if required && !twelveFactorMode {
		_ = c.MarkFlagRequired(sw.name)
	}
}

// getCliFlag fetches the value of name from the environment, when running in twelveFactorMode.
// If a value cannot be found then use the supplied defaultValue in its place.
func (f *cliFlags) getCliFlag(name string, defaultValue string) cliFlag {
	s, ok := (*f)[name]
	if !ok {
		panic(fmt.Sprintf("unregistered CLI flag, %q", name))
	}
	s.val = defaultValue
	if twelveFactorMode {
		_ = helper.ReadValueFromEnv(helper.FlagNameToEnvVar(name), &s.val)
	}
	return s
}

// envVarsForFlags lists the twelveFactorMode environment variable for each flag in fs.
func envVarsForFlags(fs *pflag.FlagSet) []string {
	retval := make([]string, 0)
	fs.VisitAll(func(f *pflag.Flag) {
		if !f.Hidden {
			retval = append(retval, helper.FlagNameToEnvVar(f.Name))
		}
	})
	sort.Strings(retval)
	return retval
}

// requireFlags returns an error naming every flag in values that is unset.
// Cobra does not enforce required flags in twelveFactorMode so actions call this themselves.
func requireFlags(values map[string]string) error {
	missing := make([]string, 0)
	for name, v := range values {
		if v == "" {
			missing = append(missing, helper.FlagNameToEnvVar(name))
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("please supply values for %v", strings.Join(missing, ", "))
	}
	return nil
}

// getQueryFromArgsFunc saves arg[0] as the connection and concatenates the remaining args into query.
// Returns an error if there are too few args.
func getQueryFromArgsFunc(conn *string, query *string, customErrMsg string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < 2 {
			if customErrMsg != "" {
				return errors.New(customErrMsg)
			} else {
				return errors.New("please supply a connection and a SQL query")
			}
		}
		*conn = args[0]
		*query = strings.Join(args[1:], " ")
		return nil
	}
}

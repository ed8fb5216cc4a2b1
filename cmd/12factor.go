package cmd

import (
	"fmt"
	"os"
	"strings"

	c "github.com/relloyd/dpu/constants"
	"github.com/relloyd/dpu/helper"
	"github.com/relloyd/dpu/logger"
)

// init will be called first due to the lexical order in which these functions are executed.
// This ensures the value of twelveFactorMode is set before the other init() functions register flags,
// since in twelveFactorMode addFlag reads flag values from the environment instead of Cobra.
func init() {
	setupTwelveFactorMode()
}

// setupTwelveFactorMode will enable or disable 12 factor mode based on environment variable.
func setupTwelveFactorMode() {
	mode := os.Getenv(envVarTwelveFactorMode)
	if mode != "" {
		twelveFactorMode = true
		if strings.ToLower(mode) == "lambda" {
			lambdaMode = true
		}
	} else {
		twelveFactorMode = false // explicitly turn off this mode since tests may have turned it on while others require it off.
		lambdaMode = false
	}
}

const (
	envVarTwelveFactorMode = c.EnvVarPrefix + "_" + "12FACTOR_MODE"
	envVarCommand          = c.EnvVarPrefix + "_" + "COMMAND"
	envVarSubcommand       = c.EnvVarPrefix + "_" + "SUBCOMMAND"
	envVarLogLevel         = c.EnvVarPrefix + "_" + "LOG_LEVEL"
	envVarStackDump        = c.EnvVarPrefix + "_" + "STACK_DUMP"
	envVarSharePassword    = c.EnvVarPrefix + "_" + "SHARE_PASSWORD"
)

var (
	twelveFactorMode bool // true if os env var envVarTwelveFactorMode is set
	lambdaMode       bool // true if envVarTwelveFactorMode is "lambda"
	twelveFactorVars = map[string]string{
		envVarCommand:           "",
		envVarSubcommand:        "",
		envVarLogLevel:          "",
		envVarStackDump:         "",
		c.EnvVarConnectionsFile: "",
		envVarSharePassword:     "",
	}
	twelveFactorVarsSensitive = map[string]string{ // used to flag some of the above variables as being sensitive.
		envVarSharePassword: "",
	}
)

type twelveFactorAction struct {
	runnerFunc func() error
}

func actionKey(command string, subcommand string) string {
	return fmt.Sprintf("%v-%v", command, subcommand)
}

var twelveFactorActions = map[string]twelveFactorAction{
	actionKey(c.ActionFuncsCommandSync, c.ActionFuncsSubCommandTables):   {runnerFunc: runSyncTables},
	actionKey(c.ActionFuncsCommandEmail, c.ActionFuncsSubCommandSend):    {runnerFunc: runEmailSend},
	actionKey(c.ActionFuncsCommandAlert, c.ActionFuncsSubCommandTeams):   {runnerFunc: runAlertTeams},
	actionKey(c.ActionFuncsCommandShare, c.ActionFuncsSubCommandS3Share): {runnerFunc: runShareS3ToShare},
	actionKey(c.ActionFuncsCommandShare, c.ActionFuncsSubCommandShareS3): {runnerFunc: runShareShareToS3},
}

func execute12FactorMode(acts map[string]twelveFactorAction) (err error) {
	logLevel := helper.ReadValueFromEnvWithDefault(envVarLogLevel, "warn")
	stackDump := helper.GetTrueFalseStringAsBool(os.Getenv(envVarStackDump)) || os.Getenv(envVarStackDump) == "1"
	log := logger.NewJsonLogger("dpu", logLevel, stackDump)
	log.Info("dpu is running in 12 Factor mode...")
	for k := range twelveFactorVars {
		twelveFactorVars[k] = os.Getenv(k)
		if _, sensitive := twelveFactorVarsSensitive[k]; !sensitive {
			log.Debug(k, "=", twelveFactorVars[k])
		} else {
			log.Debug(k, "=", "<obfuscated>")
		}
	}
	a, ok := acts[actionKey(twelveFactorVars[envVarCommand], twelveFactorVars[envVarSubcommand])]
	if !ok {
		err = fmt.Errorf("invalid combination of command (%v) and subcommand (%v)", twelveFactorVars[envVarCommand], twelveFactorVars[envVarSubcommand])
		log.Error(err.Error())
		return
	}
	err = a.runnerFunc()
	if err != nil {
		log.Error("Error: ", err)
	}
	return err
}

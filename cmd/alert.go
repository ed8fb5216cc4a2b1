package cmd

import (
	"context"
	"fmt"
	"strings"

	c "github.com/relloyd/dpu/constants"
	"github.com/relloyd/dpu/notify/teams"
	"github.com/spf13/cobra"
)

var alertCmd = &cobra.Command{
	Use:   c.ActionFuncsCommandAlert,
	Short: "Post pipeline alerts to chat",
}

type alertTeamsConfig struct {
	LogLevel   string
	WebhookUrl string
	Status     string
	DagId      string
	RunId      string
	TaskId     string
}

var alertTeamsCfg = alertTeamsConfig{}

var alertTeamsCmd = &cobra.Command{
	Use:   c.ActionFuncsSubCommandTeams,
	Short: "Post a success or failure card for a scheduler task to a Microsoft Teams webhook",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAlertTeams()
	},
}

func init() {
	rootCmd.AddCommand(alertCmd)
	alertCmd.AddCommand(alertTeamsCmd)
	alertTeamsCmd.Flags().SortFlags = false
	switches.addFlag(alertTeamsCmd, &alertTeamsCfg.WebhookUrl, "webhook-url", "", true, "")
	switches.addFlag(alertTeamsCmd, &alertTeamsCfg.Status, "status", "", true, "")
	switches.addFlag(alertTeamsCmd, &alertTeamsCfg.DagId, "dag-id", "", true, "")
	switches.addFlag(alertTeamsCmd, &alertTeamsCfg.RunId, "run-id", "", true, "")
	switches.addFlag(alertTeamsCmd, &alertTeamsCfg.TaskId, "task-id", "", true, "")
	switches.addFlag(alertTeamsCmd, &alertTeamsCfg.LogLevel, "log-level", "info", false, "")
}

func (cfg alertTeamsConfig) card() (teams.MessageCard, error) {
	tc := teams.TaskContext{DagId: cfg.DagId, RunId: cfg.RunId, TaskId: cfg.TaskId}
	switch strings.ToLower(strings.TrimSpace(cfg.Status)) {
	case "success", "succeeded":
		return teams.SuccessCard(tc), nil
	case "failure", "failed":
		return teams.FailureCard(tc), nil
	default:
		return teams.MessageCard{}, fmt.Errorf("unexpected status %q: use \"success\" or \"failure\"", cfg.Status)
	}
}

func runAlertTeams() error {
	cfg := alertTeamsCfg
	if err := requireFlags(map[string]string{
		"webhook-url": cfg.WebhookUrl,
		"status":      cfg.Status,
		"dag-id":      cfg.DagId,
		"run-id":      cfg.RunId,
		"task-id":     cfg.TaskId,
	}); err != nil {
		return err
	}
	card, err := cfg.card()
	if err != nil {
		return err
	}
	log := newLogger("dpu-alert", cfg.LogLevel)
	return teams.NewClient(log, cfg.WebhookUrl).Post(context.Background(), card)
}

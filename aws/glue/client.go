// Package glue reads job run history from AWS Glue.
package glue

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/client"
	"github.com/aws/aws-sdk-go/service/glue"
	"github.com/aws/aws-sdk-go/service/glue/glueiface"
	"github.com/relloyd/dpu/errs"
)

// JobRun is the subset of a Glue job run needed to compute watermarks.
type JobRun struct {
	Id        string
	State     string
	StartedOn time.Time
}

type Client struct {
	api glueiface.GlueAPI
}

func NewClient(sess client.ConfigProvider) *Client {
	return &Client{api: glue.New(sess)}
}

func NewClientWithAPI(api glueiface.GlueAPI) *Client {
	return &Client{api: api}
}

// GetJobRuns returns every run of jobName, following all pages.
func (c *Client) GetJobRuns(ctx context.Context, jobName string) ([]JobRun, error) {
	runs := make([]JobRun, 0)
	err := c.api.GetJobRunsPagesWithContext(ctx, &glue.GetJobRunsInput{JobName: aws.String(jobName)},
		func(page *glue.GetJobRunsOutput, lastPage bool) bool {
			for _, r := range page.JobRuns {
				runs = append(runs, JobRun{
					Id:        aws.StringValue(r.Id),
					State:     aws.StringValue(r.JobRunState),
					StartedOn: aws.TimeValue(r.StartedOn),
				})
			}
			return true
		})
	if err != nil {
		return nil, errs.External("glue", "get job runs", err)
	}
	return runs, nil
}

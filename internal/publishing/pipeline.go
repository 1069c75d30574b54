package publishing

import (
	"context"
	"fmt"

	"videoai/internal/jobs"
	"videoai/internal/pipeline"
	"videoai/internal/services"
)

// Input is the validated request a publishing job runs against.
type Input struct {
	AccountID   string `json:"accountId"`
	Platform    string `json:"platform"`
	VideoURL    string `json:"videoUrl"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type state struct {
	account Account
	token   string
	receipt Receipt
}

// NewPipeline builds the publishing stage sequence for one job input.
func NewPipeline(input Input, collab Collaborators) pipeline.Pipeline {
	st := &state{}

	stages := []pipeline.Stage{
		{
			Name:     "verify_account",
			Progress: 30,
			Message:  "verifying account",
			Run: func(ctx context.Context, _ *jobs.Job) (string, error) {
				account, err := collab.Accounts.Account(ctx, input.AccountID)
				if err != nil {
					return "", services.Wrap(services.ErrExternalService, "verify_account", "lookup", "", err)
				}
				if !account.Active {
					return "", services.Wrap(services.ErrValidation, "verify_account", "check",
						fmt.Sprintf("account %s is not active", account.Handle), nil)
				}
				if !account.Verified {
					return "", services.Wrap(services.ErrValidation, "verify_account", "check",
						fmt.Sprintf("account %s is not verified", account.Handle), nil)
				}
				token, err := collab.Tokens.ValidToken(ctx, account)
				if err != nil {
					return "", services.Wrap(services.ErrExternalService, "verify_account", "token", "", err)
				}
				st.account = account
				st.token = token
				return fmt.Sprintf("account %s verified", account.Handle), nil
			},
		},
		{
			Name:     "publish_video",
			Progress: 80,
			Message:  "publishing video",
			Run: func(ctx context.Context, _ *jobs.Job) (string, error) {
				publisher, ok := collab.Publishers.Lookup(input.Platform)
				if !ok {
					return "", services.Wrap(services.ErrConfiguration, "publish_video", "resolve",
						fmt.Sprintf("no publisher for platform %q", input.Platform), nil)
				}
				receipt, err := publisher.Publish(ctx, PublishRequest{
					Account:     st.account,
					AccessToken: st.token,
					VideoURL:    input.VideoURL,
					Title:       input.Title,
					Description: input.Description,
				})
				if err != nil {
					return "", services.Wrap(services.ErrExternalService, "publish_video", "upload", "", err)
				}
				st.receipt = receipt
				return fmt.Sprintf("published to %s", input.Platform), nil
			},
		},
	}

	return pipeline.Pipeline{
		Kind:   jobs.KindPublishing,
		Stages: stages,
		Result: func() *jobs.Result {
			return &jobs.Result{Publishing: &jobs.PublishingResult{
				Platform:    input.Platform,
				ExternalID:  st.receipt.ExternalID,
				ExternalURL: st.receipt.ExternalURL,
			}}
		},
		StartMessage:      "preparing publication",
		CompletionMessage: "video published",
	}
}

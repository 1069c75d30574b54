package publishing

import "context"

// Account is a linked social platform account.
type Account struct {
	ID       string `json:"id"`
	Platform string `json:"platform"`
	Handle   string `json:"handle"`
	Active   bool   `json:"active"`
	Verified bool   `json:"verified"`
}

// PublishRequest carries the upload payload handed to a platform publisher.
type PublishRequest struct {
	Account     Account `json:"account"`
	AccessToken string  `json:"-"`
	VideoURL    string  `json:"videoUrl"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
}

// Receipt is the platform's acknowledgement of a published video.
type Receipt struct {
	ExternalID  string `json:"externalId"`
	ExternalURL string `json:"externalUrl"`
}

// AccountDirectory looks up linked accounts. External collaborator.
type AccountDirectory interface {
	Account(ctx context.Context, accountID string) (Account, error)
}

// TokenSource returns a valid access token for an account, refreshing and
// re-encrypting stored credentials as needed. Opaque here.
type TokenSource interface {
	ValidToken(ctx context.Context, account Account) (string, error)
}

// Publisher uploads one video to one platform.
type Publisher interface {
	Publish(ctx context.Context, req PublishRequest) (Receipt, error)
}

// Collaborators bundles the external services the pipeline depends on.
type Collaborators struct {
	Accounts   AccountDirectory
	Tokens     TokenSource
	Publishers *Registry
}

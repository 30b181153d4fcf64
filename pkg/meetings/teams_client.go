package meetings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2/clientcredentials"
)

// Meeting is the booked video call attached to an appointment.
type Meeting struct {
	Id      string
	JoinUrl string
}

// IMeetingClient creates video meetings for confirmed appointments. Failures
// are reported but never block the appointment flow.
type IMeetingClient interface {
	CreateMeeting(ctx context.Context, subject string, startAt, endAt time.Time) (*Meeting, error)
	CancelMeeting(ctx context.Context, meetingId string) error
}

type TeamsConfig struct {
	TenantId     string
	ClientId     string
	ClientSecret string
	// OrganizerId is the Graph user the meetings are created under.
	OrganizerId string
}

type teamsClient struct {
	httpClient  *http.Client
	organizerId string
}

const graphBaseUrl = "https://graph.microsoft.com/v1.0"

func NewTeamsClient(cfg TeamsConfig) IMeetingClient {
	ccfg := &clientcredentials.Config{
		ClientID:     cfg.ClientId,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     fmt.Sprintf("https://login.microsoftonline.com/%s/oauth2/v2.0/token", cfg.TenantId),
		Scopes:       []string{"https://graph.microsoft.com/.default"},
	}

	return &teamsClient{
		httpClient:  ccfg.Client(context.Background()),
		organizerId: cfg.OrganizerId,
	}
}

type createMeetingRequest struct {
	Subject       string `json:"subject"`
	StartDateTime string `json:"startDateTime"`
	EndDateTime   string `json:"endDateTime"`
}

type createMeetingResponse struct {
	Id      string `json:"id"`
	JoinUrl string `json:"joinWebUrl"`
}

func (c *teamsClient) CreateMeeting(ctx context.Context, subject string, startAt, endAt time.Time) (*Meeting, error) {
	body, err := json.Marshal(createMeetingRequest{
		Subject:       subject,
		StartDateTime: startAt.UTC().Format(time.RFC3339),
		EndDateTime:   endAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/users/%s/onlineMeetings", graphBaseUrl, c.organizerId)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("graph create meeting: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("graph create meeting: unexpected status %d", resp.StatusCode)
	}

	var result createMeetingResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("graph create meeting: decode response: %w", err)
	}

	return &Meeting{
		Id:      result.Id,
		JoinUrl: result.JoinUrl,
	}, nil
}

func (c *teamsClient) CancelMeeting(ctx context.Context, meetingId string) error {
	url := fmt.Sprintf("%s/users/%s/onlineMeetings/%s", graphBaseUrl, c.organizerId, meetingId)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("graph cancel meeting: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("graph cancel meeting: unexpected status %d", resp.StatusCode)
	}
	return nil
}

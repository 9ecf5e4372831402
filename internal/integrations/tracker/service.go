package tracker

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"prodtrack/pkg/models"

	"github.com/joho/godotenv"
)

// TrackerService escalates critical discrepancy alerts to an external
// issue tracker over its REST API.
type TrackerService struct {
	baseURL    string
	email      string
	token      string
	projectKey string
}

func NewTrackerService() *TrackerService {
	_ = godotenv.Load()

	return &TrackerService{
		baseURL:    os.Getenv("TRACKER_BASE_URL"),
		email:      os.Getenv("TRACKER_EMAIL"),
		token:      os.Getenv("TRACKER_API_TOKEN"),
		projectKey: os.Getenv("TRACKER_PROJECT_KEY"),
	}
}

func (s *TrackerService) Enabled() bool {
	return s.baseURL != "" && s.token != ""
}

type issuePayload struct {
	ProjectKey  string `json:"project_key"`
	Summary     string `json:"summary"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

// EscalateAlert files an issue for a critical discrepancy. Failures are
// logged and swallowed; escalation is best-effort and must not fail the
// tracking request.
func (s *TrackerService) EscalateAlert(alert *models.Alert) {
	if !s.Enabled() {
		return
	}

	payload := issuePayload{
		ProjectKey: s.projectKey,
		Summary: fmt.Sprintf("Production discrepancy at %s (order %d, line item %d)",
			alert.Stage, alert.OrderID, alert.LineItemID),
		Description: fmt.Sprintf("Expected %d, recorded %d (difference %d). Alert #%d.",
			alert.Expected, alert.Actual, alert.Difference, alert.ID),
		Priority: alert.Priority,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("tracker: failed to marshal issue payload: %v", err)
		return
	}

	url := fmt.Sprintf("%s/rest/api/issues", s.baseURL)
	req, err := http.NewRequest("POST", url, bytes.NewReader(body))
	if err != nil {
		log.Printf("tracker: failed to build request: %v", err)
		return
	}
	req.SetBasicAuth(s.email, s.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Printf("tracker: escalation request failed: %v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		log.Printf("tracker: escalation returned %s for alert %d", resp.Status, alert.ID)
		return
	}

	log.Printf("tracker: escalated alert %d", alert.ID)
}

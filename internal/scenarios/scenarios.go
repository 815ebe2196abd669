// Package scenarios holds the built-in test run configurations and loads
// custom ones from YAML or JSON files.
package scenarios

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kelsos/hamming-cli/internal/logger"
	"github.com/kelsos/hamming-cli/internal/models"
)

// PlaceholderPhoneNumber is used when an outbound config lists no numbers
const PlaceholderPhoneNumber = "+1234567890"

// DefaultOutbound is a simple outbound call test
func DefaultOutbound() models.OutboundTestConfig {
	return models.OutboundTestConfig{
		Name:         "Basic Outbound Test",
		Description:  "Simple outbound call test to verify agent functionality",
		PhoneNumbers: []string{},
		AgentConfig: models.AgentConfig{
			Voice:        "default",
			Personality:  "helpful and friendly",
			Instructions: "You are a helpful assistant conducting a test call. Be brief and professional.",
		},
		TestCases: []models.TestCase{
			{
				Name:        "Basic Greeting Test",
				Description: "Test basic greeting and response",
				ExpectedBehaviors: []string{
					"Agent should greet the caller politely",
					"Agent should identify the purpose of the call",
					"Agent should handle basic questions",
				},
			},
		},
		Settings: models.RunSettings{
			MaxDuration:      120,
			RecordingEnabled: true,
			AnalysisEnabled:  true,
		},
	}
}

// DefaultInbound is a simple inbound call test requesting two numbers
func DefaultInbound() models.InboundTestConfig {
	return models.InboundTestConfig{
		Name:        "Basic Inbound Test",
		Description: "Simple inbound call test to verify agent responses",
		AgentConfig: models.AgentConfig{
			Voice:        "default",
			Personality:  "helpful customer service representative",
			Instructions: "You are a customer service agent. Be helpful, professional, and solve customer issues efficiently.",
			Greeting:     "Hello! Thank you for calling. How can I help you today?",
		},
		TestScenarios: []models.TestScenario{
			{
				Name:        "Customer Service Inquiry",
				Description: "Test handling of general customer questions",
				CallerProfile: models.CallerProfile{
					Name:      "Test Customer",
					IssueType: "general_inquiry",
					Tone:      "neutral",
				},
				TestScript: []string{
					"Hi, I have a question about my account",
					"Can you help me check my recent orders?",
					"Thank you for your help",
				},
				ExpectedBehaviors: []string{
					"Agent should greet professionally",
					"Agent should ask for account information",
					"Agent should provide helpful responses",
					"Agent should maintain professional tone",
				},
			},
		},
		TelephonyConfig: models.TelephonyConfig{
			Provider:    "twilio",
			NumberCount: 2,
			Region:      "us",
			Features:    []string{"recording", "transcription"},
		},
		Settings: models.RunSettings{
			MaxDuration:      300,
			RecordingEnabled: true,
			AnalysisEnabled:  true,
			AutoAnswer:       true,
		},
	}
}

// DefaultAgentRun is an agent run over the default tags
func DefaultAgentRun(agentID string) models.AgentTestRunRequest {
	return models.AgentTestRunRequest{
		AgentID:        agentID,
		Name:           "Advanced Outbound API Test",
		TimeoutMinutes: 10,
		TagIDs:         []string{"default", "api-test"},
	}
}

// LoadFile decodes a YAML or JSON file into out. Fields absent from the file
// keep the values out already holds. A .json file uses the API field names,
// anything else is read as YAML.
func LoadFile(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, out)
	} else {
		err = yaml.Unmarshal(data, out)
	}
	if err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

// EnsurePhoneNumbers adds the placeholder number when none are configured
func EnsurePhoneNumbers(cfg *models.OutboundTestConfig) {
	if len(cfg.PhoneNumbers) > 0 {
		return
	}
	logger.Warn("No phone numbers provided, using placeholder %s. Add real numbers to phone_numbers to test.", PlaceholderPhoneNumber)
	cfg.PhoneNumbers = []string{PlaceholderPhoneNumber}
}

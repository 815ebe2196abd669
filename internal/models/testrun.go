package models

// AgentConfig describes the voice agent under test
type AgentConfig struct {
	Voice        string `json:"voice" yaml:"voice"`
	Personality  string `json:"personality" yaml:"personality"`
	Instructions string `json:"instructions" yaml:"instructions"`
	Greeting     string `json:"greeting,omitempty" yaml:"greeting,omitempty"`
}

// TestCase is a single outbound scenario
type TestCase struct {
	Name              string   `json:"name" yaml:"name"`
	Description       string   `json:"description" yaml:"description"`
	ExpectedBehaviors []string `json:"expected_behaviors" yaml:"expected_behaviors"`
}

// CallerProfile describes who calls an inbound agent
type CallerProfile struct {
	Name      string `json:"name" yaml:"name"`
	IssueType string `json:"issue_type" yaml:"issue_type"`
	Tone      string `json:"tone" yaml:"tone"`
}

// TestScenario is a single inbound scenario
type TestScenario struct {
	Name              string        `json:"name" yaml:"name"`
	Description       string        `json:"description" yaml:"description"`
	CallerProfile     CallerProfile `json:"caller_profile" yaml:"caller_profile"`
	TestScript        []string      `json:"test_script" yaml:"test_script"`
	ExpectedBehaviors []string      `json:"expected_behaviors" yaml:"expected_behaviors"`
}

// TelephonyConfig requests phone numbers for inbound runs
type TelephonyConfig struct {
	Provider    string   `json:"provider" yaml:"provider"`
	NumberCount int      `json:"number_count" yaml:"number_count"`
	Region      string   `json:"region" yaml:"region"`
	Features    []string `json:"features" yaml:"features"`
}

// RunSettings are per-call limits and toggles
type RunSettings struct {
	MaxDuration      int  `json:"max_duration" yaml:"max_duration"`
	RecordingEnabled bool `json:"recording_enabled" yaml:"recording_enabled"`
	AnalysisEnabled  bool `json:"analysis_enabled" yaml:"analysis_enabled"`
	AutoAnswer       bool `json:"auto_answer,omitempty" yaml:"auto_answer,omitempty"`
}

// OutboundTestConfig is the body of an outbound create-run call
type OutboundTestConfig struct {
	Name         string      `json:"name" yaml:"name"`
	Description  string      `json:"description" yaml:"description"`
	PhoneNumbers []string    `json:"phone_numbers" yaml:"phone_numbers"`
	AgentConfig  AgentConfig `json:"agent_config" yaml:"agent_config"`
	TestCases    []TestCase  `json:"test_cases" yaml:"test_cases"`
	Settings     RunSettings `json:"settings" yaml:"settings"`
}

// InboundTestConfig is the body of an inbound create-run call
type InboundTestConfig struct {
	Name            string          `json:"name" yaml:"name"`
	Description     string          `json:"description" yaml:"description"`
	AgentConfig     AgentConfig     `json:"agent_config" yaml:"agent_config"`
	TestScenarios   []TestScenario  `json:"test_scenarios" yaml:"test_scenarios"`
	TelephonyConfig TelephonyConfig `json:"telephony_config" yaml:"telephony_config"`
	Settings        RunSettings     `json:"settings" yaml:"settings"`
}

// AgentTestRunRequest is the body of a REST agent create-run call
type AgentTestRunRequest struct {
	AgentID        string   `json:"agentId" yaml:"agent_id"`
	Name           string   `json:"name" yaml:"name"`
	TimeoutMinutes int      `json:"timeoutMinutes" yaml:"timeout_minutes"`
	TagIDs         []string `json:"tagIds" yaml:"tag_ids"`
}

// PhoneNumber is a number assigned to an inbound run
type PhoneNumber struct {
	Number   string `json:"number"`
	Region   string `json:"region,omitempty"`
	Provider string `json:"provider,omitempty"`
}

// CreateRunResponse is returned by the v1 create-run endpoints
type CreateRunResponse struct {
	RunID        string        `json:"run_id"`
	Status       RunStatus     `json:"status"`
	PhoneNumbers []PhoneNumber `json:"phone_numbers,omitempty"`
}

// AssignedNumber is a number to call for one test case of an agent run
type AssignedNumber struct {
	PhoneNumber   string `json:"phoneNumber"`
	TestCaseTitle string `json:"testCaseTitle"`
	TestCaseRunID string `json:"testCaseRunId"`
}

// AgentTestRunResponse is returned by the REST agent create-run endpoint
type AgentTestRunResponse struct {
	TestRunID       string           `json:"testRunId"`
	AssignedNumbers []AssignedNumber `json:"assignedNumbers"`
}

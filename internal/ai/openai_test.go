package ai

import "testing"

func TestNewOpenAIRequiresKey(t *testing.T) {
	if _, err := NewOpenAI(""); err == nil {
		t.Fatalf("expected error when api key missing")
	}
}

func TestNewOpenAIStoresFields(t *testing.T) {
	c, err := NewOpenAI("sk-test", WithOpenAIModel("gpt-4o"))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if c.APIKey() != "sk-test" {
		t.Fatalf("apikey mismatch")
	}
	if c.Model() != "gpt-4o" {
		t.Fatalf("model mismatch: %s", c.Model())
	}
}

//go:build !integration

package workflow

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testIDs = map[string]string{
	"postgres":  "news-agent-postgres",
	"openAiApi": "news-agent-openai",
	"smtp":      "news-agent-smtp",
}

func parseJSON(t *testing.T, text string) any {
	t.Helper()
	var root any
	require.NoError(t, json.Unmarshal([]byte(text), &root))
	return root
}

func TestRemapCredentialIDs(t *testing.T) {
	tests := []struct {
		name     string
		document string
		expected string
		count    int
	}{
		{
			name: "root level holder",
			document: `{
				"name": "Scrape Feeds",
				"credentials": {
					"postgres": {"id": "old-id", "name": "Postgres account"}
				}
			}`,
			expected: `{
				"name": "Scrape Feeds",
				"credentials": {
					"postgres": {"id": "news-agent-postgres", "name": "Postgres account"}
				}
			}`,
			count: 1,
		},
		{
			name: "holder nested in node array",
			document: `{
				"name": "Summarize",
				"nodes": [
					{
						"type": "postgresNode",
						"credentials": {
							"postgres": {"id": "a1", "name": "Postgres account"}
						}
					},
					{
						"type": "openAiNode",
						"parameters": {"model": "gpt-4o-mini"},
						"credentials": {
							"openAiApi": {"id": "b2", "name": "OpenAI account"}
						}
					}
				]
			}`,
			expected: `{
				"name": "Summarize",
				"nodes": [
					{
						"type": "postgresNode",
						"credentials": {
							"postgres": {"id": "news-agent-postgres", "name": "Postgres account"}
						}
					},
					{
						"type": "openAiNode",
						"parameters": {"model": "gpt-4o-mini"},
						"credentials": {
							"openAiApi": {"id": "news-agent-openai", "name": "OpenAI account"}
						}
					}
				]
			}`,
			count: 2,
		},
		{
			name: "unknown kind left untouched",
			document: `{
				"credentials": {
					"postgres": {"id": "a1"},
					"carrierPigeon": {"id": "keep-me"}
				}
			}`,
			expected: `{
				"credentials": {
					"postgres": {"id": "news-agent-postgres"},
					"carrierPigeon": {"id": "keep-me"}
				}
			}`,
			count: 1,
		},
		{
			name: "null reference left untouched",
			document: `{
				"credentials": {
					"postgres": null,
					"smtp": {"id": "c3"}
				}
			}`,
			expected: `{
				"credentials": {
					"postgres": null,
					"smtp": {"id": "news-agent-smtp"}
				}
			}`,
			count: 1,
		},
		{
			name:     "empty holder is valid",
			document: `{"credentials": {}, "name": "noop"}`,
			expected: `{"credentials": {}, "name": "noop"}`,
			count:    0,
		},
		{
			name: "deeply nested holder",
			document: `{
				"pinData": {
					"branches": [
						[{"settings": {"credentials": {"smtp": {"id": "deep", "extra": true}}}}]
					]
				}
			}`,
			expected: `{
				"pinData": {
					"branches": [
						[{"settings": {"credentials": {"smtp": {"id": "news-agent-smtp", "extra": true}}}}]
					]
				}
			}`,
			count: 1,
		},
		{
			name: "credentials key holding a non-object is not a holder",
			document: `{
				"credentials": "inline-string",
				"nodes": [{"credentials": {"postgres": {"id": "z9"}}}]
			}`,
			expected: `{
				"credentials": "inline-string",
				"nodes": [{"credentials": {"postgres": {"id": "news-agent-postgres"}}}]
			}`,
			count: 1,
		},
		{
			name:     "document without credentials",
			document: `{"name": "plain", "nodes": [1, 2, {"a": [true, null]}]}`,
			expected: `{"name": "plain", "nodes": [1, 2, {"a": [true, null]}]}`,
			count:    0,
		},
		{
			name:     "scalar root",
			document: `"just a string"`,
			expected: `"just a string"`,
			count:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := parseJSON(t, tt.document)

			count := RemapCredentialIDs(root, testIDs)

			assert.Equal(t, tt.count, count)
			assert.Equal(t, parseJSON(t, tt.expected), root)
		})
	}
}

func TestRemapIsAFixedPoint(t *testing.T) {
	document := `{
		"nodes": [
			{"credentials": {"postgres": {"id": "old", "name": "pg"}}},
			{"credentials": {"openAiApi": {"id": "older", "name": "ai"}}}
		]
	}`
	root := parseJSON(t, document)

	first := RemapCredentialIDs(root, testIDs)
	assert.Equal(t, 2, first)

	afterFirst, err := json.Marshal(root)
	require.NoError(t, err)

	second := RemapCredentialIDs(root, testIDs)
	assert.Equal(t, 0, second, "second remap must be a no-op")

	afterSecond, err := json.Marshal(root)
	require.NoError(t, err)
	assert.Equal(t, string(afterFirst), string(afterSecond))
}

func TestRemapOnlyTouchesRecognizedKinds(t *testing.T) {
	// Scenario from the deployment where only the database trigger is set:
	// the openAiApi reference must keep its id.
	dbOnly := map[string]string{"postgres": "news-agent-postgres"}
	document := `{
		"nodes": [
			{"credentials": {"postgres": {"id": "p1"}}},
			{"credentials": {"openAiApi": {"id": "keep-ai"}}}
		]
	}`
	root := parseJSON(t, document)

	count := RemapCredentialIDs(root, dbOnly)

	assert.Equal(t, 1, count)
	nodes := root.(map[string]any)["nodes"].([]any)
	pg := nodes[0].(map[string]any)["credentials"].(map[string]any)["postgres"].(map[string]any)
	ai := nodes[1].(map[string]any)["credentials"].(map[string]any)["openAiApi"].(map[string]any)
	assert.Equal(t, "news-agent-postgres", pg["id"])
	assert.Equal(t, "keep-ai", ai["id"])
}

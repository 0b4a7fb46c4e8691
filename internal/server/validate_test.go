package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSubmissionSchemaAccepts(t *testing.T) {
	body := []byte(`{"resumeText":"my resume","jobDescription":"the job"}`)
	assert.NoError(t, ValidateJSONAgainstSchema(submissionSchema, body))
}

func TestValidateSubmissionSchemaRejects(t *testing.T) {
	cases := map[string]string{
		"missing resumeText":     `{"jobDescription":"the job"}`,
		"missing jobDescription": `{"resumeText":"my resume"}`,
		"empty resumeText":       `{"resumeText":"","jobDescription":"the job"}`,
		"extra property":         `{"resumeText":"r","jobDescription":"j","foo":1}`,
		"non-string value":       `{"resumeText":7,"jobDescription":"j"}`,
		"not an object":          `["resumeText","jobDescription"]`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			require.Error(t, ValidateJSONAgainstSchema(submissionSchema, []byte(body)))
		})
	}
}

func TestValidateRejectsMalformedJSON(t *testing.T) {
	require.Error(t, ValidateJSONAgainstSchema(submissionSchema, []byte(`{"resumeText"`)))
}

package keywords

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractBasic(t *testing.T) {
	got := Extract("We need a Software Engineer with Java and Spring Boot experience")
	assert.Equal(t, []string{"need", "software", "engineer", "java", "spring", "boot", "experience"}, got)
}

func TestExtractKeepsSymbolTerms(t *testing.T) {
	got := Extract("Looking for C++ and Node.js developers")
	assert.Contains(t, got, "c++")
	assert.Contains(t, got, "node.js")
}

func TestExtractDropsShortTokens(t *testing.T) {
	// "c#" survives tokenization but falls to the length filter, as does "go"
	got := Extract("Go and C# experts wanted")
	assert.NotContains(t, got, "go")
	assert.NotContains(t, got, "c#")
	assert.Contains(t, got, "experts")
}

func TestExtractExcludesStopWords(t *testing.T) {
	got := Extract("the role requires years of ability and required team leadership")
	assert.Equal(t, []string{"requires", "leadership"}, got)
}

func TestExtractDeduplicatesPreservingOrder(t *testing.T) {
	got := Extract("kubernetes docker kubernetes terraform docker")
	assert.Equal(t, []string{"kubernetes", "docker", "terraform"}, got)
}

func TestExtractCapsAtTwenty(t *testing.T) {
	var words []string
	for i := 0; i < 30; i++ {
		words = append(words, fmt.Sprintf("skill%02d", i))
	}
	got := Extract(strings.Join(words, " "))
	assert.Len(t, got, 20)
	assert.Equal(t, "skill00", got[0])
	assert.Equal(t, "skill19", got[19])
}

func TestExtractEmptyInput(t *testing.T) {
	assert.Empty(t, Extract(""))
	assert.Empty(t, Extract("a an the to of"))
	assert.Empty(t, Extract("!!! ??? ..."))
}

func TestExtractIdempotent(t *testing.T) {
	input := "Senior Backend Engineer: Go, PostgreSQL, Kafka, AWS. The role requires ownership."
	first := Extract(input)
	second := Extract(input)
	assert.Equal(t, first, second)
}

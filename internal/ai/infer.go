// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ai

import (
	"bytes"
	"context"
	"text/template"
)

// inferencePromptTmpl condenses an inference-eligible memory message into a
// compact fact about the user's research interests.
var inferencePromptTmpl = template.Must(template.New("inference").Parse(`Condense the following note about a user's research activity into one short factual sentence describing their research interest. Respond with the sentence only, no preamble.

Note:
{{.Content}}
`))

// inferenceTemperature keeps fact extraction close to deterministic.
const inferenceTemperature = 0.2

// MemoryInferencer summarizes memory content through a Generator. It
// satisfies the memory store's Inferencer interface.
type MemoryInferencer struct {
	Gen Generator
}

// Infer returns a condensed form of content.
func (m *MemoryInferencer) Infer(ctx context.Context, content string) (string, error) {
	var buf bytes.Buffer
	if err := inferencePromptTmpl.Execute(&buf, struct{ Content string }{Content: content}); err != nil {
		return "", err
	}
	return m.Gen.Generate(ctx, buf.String(), inferenceTemperature)
}

package roadmap

import (
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// chunkNarrative splits a narrative into pieces that each fit within
// maxTokens, so long transcripts can be processed chunk by chunk without
// overflowing the model's context window. Splits happen on paragraph
// boundaries where possible; a single paragraph larger than the budget is
// cut at token boundaries. Short texts come back as a single chunk.
func chunkNarrative(text string, maxTokens int) ([]string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	enc, err := tiktoken.GetEncoding("o200k_base")
	if err != nil {
		return nil, err
	}

	if len(enc.Encode(text, nil, nil)) <= maxTokens {
		return []string{text}, nil
	}

	var chunks []string
	var current strings.Builder
	currentTokens := 0

	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, strings.TrimSpace(current.String()))
			current.Reset()
			currentTokens = 0
		}
	}

	for _, paragraph := range strings.Split(text, "\n\n") {
		paragraph = strings.TrimSpace(paragraph)
		if paragraph == "" {
			continue
		}

		tokens := enc.Encode(paragraph, nil, nil)

		if len(tokens) > maxTokens {
			flush()
			for start := 0; start < len(tokens); start += maxTokens {
				end := start + maxTokens
				if end > len(tokens) {
					end = len(tokens)
				}
				chunks = append(chunks, strings.TrimSpace(enc.Decode(tokens[start:end])))
			}
			continue
		}

		if currentTokens+len(tokens) > maxTokens {
			flush()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(paragraph)
		currentTokens += len(tokens)
	}
	flush()

	return chunks, nil
}

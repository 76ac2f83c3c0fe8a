package dto

// GeminiRequest is the body accepted by the generation proxy.
type GeminiRequest struct {
	Contents []GeminiContent `json:"contents"`
}

type GeminiContent struct {
	Parts []GeminiPart `json:"parts"`
}

type GeminiPart struct {
	Text string `json:"text"`
}

type GeminiCandidate struct {
	Content GeminiContent `json:"content"`
}

// GeminiResponse is the payload the proxy returns on success.
type GeminiResponse struct {
	Candidates []GeminiCandidate `json:"candidates"`
}

type GeminiErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func NewGeminiRequest(prompt string) GeminiRequest {
	return GeminiRequest{Contents: []GeminiContent{{Parts: []GeminiPart{{Text: prompt}}}}}
}

func NewGeminiResponse(text string) GeminiResponse {
	return GeminiResponse{Candidates: []GeminiCandidate{{Content: GeminiContent{Parts: []GeminiPart{{Text: text}}}}}}
}

// Prompt joins the text parts of the request.
func (r GeminiRequest) Prompt() string {
	var out string
	for _, c := range r.Contents {
		for _, p := range c.Parts {
			if out != "" && p.Text != "" {
				out += "\n"
			}
			out += p.Text
		}
	}
	return out
}

// Text returns the first generated text, or "".
func (r GeminiResponse) Text() string {
	if len(r.Candidates) == 0 || len(r.Candidates[0].Content.Parts) == 0 {
		return ""
	}
	return r.Candidates[0].Content.Parts[0].Text
}

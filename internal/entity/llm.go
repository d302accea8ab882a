package entity

const (
	RoleSystem = "system"
	RoleUser   = "user"

	ContentTypeText     = "text"
	ContentTypeImageURL = "image_url"
)

// ChatMessage is one message of a chat-completion request. Content is either
// a plain string or a list of ContentPart.
type ChatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

type ImageURL struct {
	URL string `json:"url"`
}

type ChatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
}

type ChatCompletionResponse struct {
	Choices []ChatChoice `json:"choices"`
}

type ChatChoice struct {
	Message ChatChoiceMessage `json:"message"`
}

type ChatChoiceMessage struct {
	Content string `json:"content"`
}

// Text returns the content of the first choice, or "" when absent.
func (r *ChatCompletionResponse) Text() string {
	if len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0].Message.Content
}

type LocalGenerateRequest struct {
	Model   string               `json:"model"`
	Prompt  string               `json:"prompt"`
	Stream  bool                 `json:"stream"`
	Options LocalGenerateOptions `json:"options"`
}

type LocalGenerateOptions struct {
	NumPredict  int     `json:"num_predict"`
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
}

type LocalGenerateResponse struct {
	Response string `json:"response"`
}

// Generation is the text produced by a locally hosted model.
type Generation struct {
	Text      string
	ModelUsed string
}

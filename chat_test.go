package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// setupChatTest starts a mock chat completions server and a router pointed at
// it. The returned function sets the mock's next response; the last system
// prompt the server saw is written to *prompt.
func setupChatTest(t *testing.T) (*testEnv, func(int, interface{}), *string) {
	t.Helper()
	var mockStatus int
	var mockBody interface{}
	prompt := new(string)

	mockChat := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		if len(req.Messages) > 0 {
			*prompt = req.Messages[0].Content
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(mockStatus)
		json.NewEncoder(w).Encode(mockBody)
	}))
	t.Cleanup(mockChat.Close)

	setMock := func(status int, body interface{}) {
		mockStatus = status
		mockBody = body
	}
	return setupHandlerTest(t, mockChat.URL), setMock, prompt
}

// openAIChatResponse wraps a content string in the chat completions response
// shape (choices[0].message.content).
func openAIChatResponse(content string) map[string]interface{} {
	return map[string]interface{}{
		"choices": []map[string]interface{}{
			{
				"message": map[string]interface{}{
					"content": content,
				},
			},
		},
	}
}

type chatBody struct {
	Message  string `json:"message"`
	Fallback bool   `json:"fallback"`
}

func TestChat_Success(t *testing.T) {
	e, setMock, prompt := setupChatTest(t)
	setMock(http.StatusOK, openAIChatResponse("Swap soda for sparkling water."))
	expectStatus(t, e.do("PUT", "/api/profile", completeProfileBody), http.StatusOK)

	w := e.do("POST", "/api/chatbot/chat", `{"message":"How do I cut sugar?"}`)
	expectStatus(t, w, http.StatusOK)

	var resp chatBody
	decode(t, w, &resp)
	if resp.Message != "Swap soda for sparkling water." || resp.Fallback {
		t.Errorf("resp = %+v", resp)
	}
	if !strings.Contains(*prompt, "alice") || !strings.Contains(*prompt, "1725") {
		t.Errorf("system prompt missing profile context: %q", *prompt)
	}
}

func TestChat_GenericPromptWithoutProfile(t *testing.T) {
	e, setMock, prompt := setupChatTest(t)
	setMock(http.StatusOK, openAIChatResponse("Tell me about yourself first."))

	w := e.do("POST", "/api/chatbot/chat", `{"message":"hi"}`)
	expectStatus(t, w, http.StatusOK)
	if strings.Contains(*prompt, "BMI") {
		t.Errorf("incomplete profile should use the generic prompt: %q", *prompt)
	}
}

func TestChat_UpstreamError500(t *testing.T) {
	e, setMock, _ := setupChatTest(t)
	setMock(http.StatusInternalServerError, map[string]string{"error": "boom"})

	w := e.do("POST", "/api/chatbot/chat", `{"message":"hello"}`)
	expectStatus(t, w, http.StatusOK)

	var resp chatBody
	decode(t, w, &resp)
	if !resp.Fallback || !strings.HasPrefix(resp.Message, "Hi there!") {
		t.Errorf("expected fallback greeting, got %+v", resp)
	}
}

func TestChat_EmptyMessage(t *testing.T) {
	e, _, _ := setupChatTest(t)
	expectStatus(t, e.do("POST", "/api/chatbot/chat", `{"message":""}`), http.StatusBadRequest)
}

func TestChat_MalformedJSON(t *testing.T) {
	e, _, _ := setupChatTest(t)
	expectStatus(t, e.do("POST", "/api/chatbot/chat", `{not json`), http.StatusBadRequest)
}

package assistant

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"lg/nutri-track-api/internal/metrics"
	"lg/nutri-track-api/internal/model"
)

// FallbackGreeting is returned whenever the chat API cannot answer.
const FallbackGreeting = "Hi there! 👋 I'm your nutrition assistant. I can help you with diet advice, " +
	"meal planning, and healthy lifestyle tips. What would you like to know?"

const guidelines = `Guidelines:
- Be friendly, encouraging, and supportive
- Give personalized advice based on their profile
- Provide specific, actionable nutrition and fitness tips
- Use emojis to make responses engaging
- Keep responses concise but informative
- If asked about medical conditions, advise consulting a healthcare professional
- Focus on healthy, sustainable lifestyle changes

Respond to the user's question with personalized advice.`

const profilePromptTemplate = `You are NutriBot, a friendly and knowledgeable nutrition and diet assistant.

User Profile:
- Name: %s
- Age: %d
- Weight: %gkg
- Height: %gcm
- BMI: %.1f
- Goal: %s
- Activity Level: %s
- Daily Calorie Target: %d

` + guidelines

// genericPrompt is used when the user has not filled in their profile.
const genericPrompt = `You are NutriBot, a friendly and knowledgeable nutrition and diet assistant.
The user (%s) has not completed their profile yet, so give general advice and suggest they add
their age, weight, height, sex, activity level and goal for personalized guidance.

` + guidelines

// Completer is the chat backend. *Client implements it.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// Reply is the assistant's answer. Fallback is true when the greeting was
// substituted for an upstream answer.
type Reply struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Fallback  bool      `json:"fallback"`
}

type Assistant struct {
	chat Completer
	now  func() time.Time
}

func New(chat Completer) *Assistant {
	return &Assistant{chat: chat, now: time.Now}
}

// SystemPrompt renders the system message for name and profile p.
func SystemPrompt(name string, p model.Profile) string {
	snap, err := metrics.Compute(p)
	if err != nil {
		return fmt.Sprintf(genericPrompt, name)
	}
	return fmt.Sprintf(profilePromptTemplate,
		name, *p.Age, *p.WeightKG, *p.HeightCM, snap.BMI,
		*p.Goal, *p.ActivityLevel, snap.DailyCalories)
}

// Reply asks the chat backend to answer message. Upstream failures and empty
// answers are logged and produce the fallback greeting, never an error.
func (a *Assistant) Reply(ctx context.Context, name string, p model.Profile, message string) Reply {
	messages := []Message{
		{Role: "system", Content: SystemPrompt(name, p)},
		{Role: "user", Content: message},
	}
	content, err := a.chat.Complete(ctx, messages)
	if err == nil && strings.TrimSpace(content) == "" {
		err = fmt.Errorf("empty answer")
	}
	if err != nil {
		log.Printf("[assistant] chat error for user %d: %v", p.UserID, err)
		return Reply{Message: FallbackGreeting, Timestamp: a.now().UTC(), Fallback: true}
	}
	return Reply{Message: content, Timestamp: a.now().UTC()}
}

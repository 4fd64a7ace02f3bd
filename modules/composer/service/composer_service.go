package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"outreach-api/core/config"
	"outreach-api/core/constants"
	"outreach-api/core/logger"
	"outreach-api/modules/composer/dto"
)

// Slot actions the generator may assign to a draft.
const (
	SlotActionExisting  = "existing"
	SlotActionNone      = "none"
	SlotActionSuggested = "suggested"
	SlotActionConfirmed = "confirmed"
)

const generateSystemPrompt = `You are a professional B2B sales email writer.
Follow the user instructions exactly.
If slots mentioned in past interaction or the current mail do not match the available slots, use the available slots and do not prefer the old ones.
Strictly return ONLY one JSON object with fields:
- subject (string)
- body (string)
- confirmed_slot (string, "" unless a slot is confirmed)
- suggested_slots (list of strings, up to 3)
- slot_action (string, one of "existing", "none", "suggested", "confirmed")`

const refineSystemPrompt = `You refine sales email drafts strictly based on feedback. JSON only output.`

// ComposerService drafts and refines outreach emails. Both operations fail
// closed: on any model or parse failure the result falls back to
// precomputed defaults (generate) or the prior content (refine), never to
// unset fields.
type ComposerService interface {
	GenerateDraft(ctx context.Context, req *dto.DraftContext) *dto.DraftContent
	RefineDraft(ctx context.Context, subject, body, feedback string) (string, string)
}

type composerService struct {
	cfg    config.LLMConfig
	client *http.Client
}

func NewComposerService(cfg config.LLMConfig) ComposerService {
	return &composerService{
		cfg:    cfg,
		client: &http.Client{Timeout: constants.HTTPClientTimeout},
	}
}

func (s *composerService) GenerateDraft(ctx context.Context, req *dto.DraftContext) *dto.DraftContent {
	userPrompt, defaultAction := s.buildGeneratePrompt(req)

	fallback := func() *dto.DraftContent {
		content := &dto.DraftContent{
			SlotAction:    defaultAction,
			ConfirmedSlot: req.ExistingSlot,
		}
		if defaultAction == SlotActionSuggested {
			content.SuggestedSlots = topSlots(req.AvailableSlots)
		}
		return content
	}

	raw, err := s.complete(ctx, generateSystemPrompt, userPrompt, s.cfg.Temperature)
	if err != nil {
		logger.Warn("ComposerService:GenerateDraft:ModelError", "error", err)
		return fallback()
	}

	parsed := map[string]any{}
	if err := json.Unmarshal(extractJSONObject(raw), &parsed); err != nil {
		logger.Warn("ComposerService:GenerateDraft:ParseError", "error", err, "raw", truncate(raw, 400))
		return fallback()
	}

	content := &dto.DraftContent{
		Subject:        stringField(parsed, "subject"),
		Body:           stringField(parsed, "body"),
		ConfirmedSlot:  stringField(parsed, "confirmed_slot"),
		SuggestedSlots: stringSliceField(parsed, "suggested_slots"),
		SlotAction:     stringField(parsed, "slot_action"),
	}
	if content.ConfirmedSlot == "" {
		content.ConfirmedSlot = req.ExistingSlot
	}
	if !validSlotAction(content.SlotAction) {
		if content.SlotAction != "" {
			logger.Warn("ComposerService:GenerateDraft:UnknownSlotAction", "action", content.SlotAction)
		}
		content.SlotAction = defaultAction
	}
	content.SuggestedSlots = topSlots(content.SuggestedSlots)
	return content
}

func (s *composerService) RefineDraft(ctx context.Context, subject, body, feedback string) (string, string) {
	userPrompt := fmt.Sprintf(`Here is the current draft:
Subject: %s
Body: %s

User Feedback: %q

Task:
- Update subject and body according to feedback
- Keep professional tone
- Return valid JSON: {"subject": "<string>", "body": "<string>"}`, subject, body, feedback)

	raw, err := s.complete(ctx, refineSystemPrompt, userPrompt, 0.7)
	if err != nil {
		logger.Warn("ComposerService:RefineDraft:ModelError", "error", err)
		return subject, body
	}

	var refined struct {
		Subject string `json:"subject"`
		Body    string `json:"body"`
	}
	if err := json.Unmarshal(extractJSONObject(raw), &refined); err != nil {
		logger.Warn("ComposerService:RefineDraft:ParseError", "error", err, "raw", truncate(raw, 400))
		return subject, body
	}
	if refined.Subject == "" {
		refined.Subject = subject
	}
	if refined.Body == "" {
		refined.Body = body
	}
	return refined.Subject, refined.Body
}

// buildGeneratePrompt picks one of four prompt cases from the interaction
// state and returns the prompt plus the default slot action for that case.
func (s *composerService) buildGeneratePrompt(req *dto.DraftContext) (string, string) {
	slotsText := "No available slots."
	if len(req.AvailableSlots) > 0 {
		var b strings.Builder
		for _, slot := range topSlots(req.AvailableSlots) {
			fmt.Fprintf(&b, "- %s\n", slot)
		}
		slotsText = strings.TrimRight(b.String(), "\n")
	}

	companyText := fmt.Sprintf("Company: %s\nSignature: %s\nCTA: %s\nServices: %s\nUSP: %s",
		req.Company.Name, req.Company.Signature, req.Company.CTA,
		strings.Join(req.Company.Services, ", "), strings.Join(req.Company.USP, ", "))

	switch {
	case req.ExistingSlot != "":
		// already has a scheduled meeting
		return fmt.Sprintf(`Prospect reply:
%s

Note: the prospect already has a scheduled meeting at %s.

Task:
- Reply politely informing them that the meeting is already scheduled.
- confirmed_slot should contain the scheduled slot info.
- suggested_slots should be an empty list.
- slot_action should be "existing".`, req.CurrentMail, req.ExistingSlot), SlotActionExisting

	case req.PastInteraction == "" && req.CurrentMail == "":
		// cold outreach
		return fmt.Sprintf(`Prospect: %s (%s, %s)
Task: Write a cold outreach email introducing
%s
and how it can help in %s. Keep it short, personalized, professional.`,
			req.Prospect.Name, req.Prospect.Role, req.Prospect.Industry,
			companyText, req.Prospect.Industry), SlotActionNone

	case req.PastInteraction != "" && req.CurrentMail == "":
		// follow-up
		return fmt.Sprintf(`Write a polite follow-up email based on this past interaction:
%s

Suggest these available slots:
%s
Always include suggested_slots as a list of strings.`, req.PastInteraction, slotsText), SlotActionSuggested

	default:
		// prospect replied, no confirmed event yet
		return fmt.Sprintf(`Prospect reply:
%s

Available slots:
%s

Task:
- If the prospect asks for available time, suggest available slots and confirm.
- If they confirm a time or are flexible, set confirmed_slot based on the available slots only.
- Otherwise, reply naturally.`, req.CurrentMail, slotsText), SlotActionConfirmed
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	Messages    []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (s *composerService) complete(ctx context.Context, system, user string, temperature float64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.HTTPClientTimeout)
	defer cancel()

	payload := chatRequest{
		Model:       s.cfg.Model,
		Temperature: temperature,
		MaxTokens:   s.cfg.MaxTokens,
		Messages: []chatMessage{
			{Role: "system", Content: strings.TrimSpace(system)},
			{Role: "user", Content: strings.TrimSpace(user)},
		},
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.BaseURL+"/chat/completions", bytes.NewReader(raw))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("LLM API error %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("LLM returned no choices")
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

// extractJSONObject strips markdown fences and falls back to the first
// top-level {...} block when the model wrapped its JSON in prose.
func extractJSONObject(raw string) []byte {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	if strings.HasPrefix(raw, "{") {
		return []byte(raw)
	}
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return []byte(raw[start : end+1])
	}
	return []byte(raw)
}

func stringField(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func stringSliceField(m map[string]any, key string) []string {
	raw, ok := m[key].([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range raw {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

func validSlotAction(s string) bool {
	switch s {
	case SlotActionExisting, SlotActionNone, SlotActionSuggested, SlotActionConfirmed:
		return true
	}
	return false
}

func topSlots(slots []string) []string {
	if len(slots) > constants.MaxSuggestedSlots {
		return slots[:constants.MaxSuggestedSlots]
	}
	return slots
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

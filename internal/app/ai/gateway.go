/*
Package ai contains the gateway to the hosted generative model.

This file defines the Gateway struct and its three single-shot operations:
expert recommendations, profile improvement suggestions, and message
moderation. Every operation fails open with a static fallback: callers never
observe an error, and failures are only logged.
*/
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/SADD1990/kkhebrah/internal/pkg/logx"
)

// Recommendation is one AI-generated expert suggestion. Recommendations are
// ephemeral: fetched per request and never persisted or merged into a profile.
type Recommendation struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Skill  string  `json:"skill"`
	Rating float64 `json:"rating"`
	Avatar string  `json:"avatar"`
	Reason string  `json:"reason"`
}

// Verdict is the moderation outcome for a chat message.
type Verdict int

const (
	// VerdictSafe means the message passed moderation, or moderation could
	// not run. Failing open to safe is a deliberate availability choice: an
	// outage of the classifier must not block the conversation.
	VerdictSafe Verdict = iota

	// VerdictFlagged means the classifier marked the message for review.
	VerdictFlagged
)

// String returns the wire representation of the verdict.
func (v Verdict) String() string {
	switch v {
	case VerdictFlagged:
		return "flagged"
	case VerdictSafe:
		return "safe"
	default:
		return "safe"
	}
}

// MarshalJSON serializes the verdict as its string form.
func (v Verdict) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.String())
}

// UnmarshalJSON parses the string form of a verdict. Unknown values resolve
// to safe, mirroring the classifier's own policy.
func (v *Verdict) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	if s == "flagged" {
		*v = VerdictFlagged
	} else {
		*v = VerdictSafe
	}
	return nil
}

const (
	recommendationPrompt = `أنت محرك توصيات ذكي لمنصة "خِبرة" لتبادل المهارات في السعودية. بناءً على اهتمام المستخدم بـ "%s"، قم بإنشاء 5 ملفات شخصية لخبراء وهميين. لكل خبير، قدم اسمًا، ومهارة محددة تتعلق بالاهتمام، وتقييمًا من 1 إلى 5، ورابط صورة رمزية باستخدام "https://picsum.photos/seed/UNIQUE_SEED/100/100"، وسببًا قصيرًا ومقنعًا باللغة العربية يوضح لماذا هذا الخبير مناسب للمستخدم.`

	suggestionsPrompt = `أنت مدرب مهني ذكي في منصة "خِبرة". النص التالي هو الوصف الشخصي لمستخدم. قدم 3 اقتراحات موجزة وعملية باللغة العربية لجعله أكثر احترافية وجاذبية للمتعلمين. وصف المستخدم هو: "%s"`

	moderationPrompt = `You are a content safety classifier. Analyze the following message and determine if it contains spam, fraud, or inappropriate content. Respond with only "SAFE" or "FLAGGED". Message: "%s"`

	// suggestionsFailureNotice is the single suggestion returned when the
	// model cannot be reached, the only operation whose fallback is allowed
	// to visibly signal failure.
	suggestionsFailureNotice = "حدث خطأ أثناء جلب الاقتراحات. يرجى التأكد من إعداد مفتاح API بشكل صحيح في بيئة النشر."
)

// recommendationSchema constrains the recommendation response to a JSON array
// of fully-populated expert objects.
var recommendationSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"id":     {Type: genai.TypeString, Description: "A unique identifier for the expert."},
			"name":   {Type: genai.TypeString, Description: "The full name of the expert."},
			"skill":  {Type: genai.TypeString, Description: "The main skill they are an expert in."},
			"rating": {Type: genai.TypeNumber, Description: "A rating from 1 to 5, can be a float."},
			"avatar": {Type: genai.TypeString, Description: "A URL to a placeholder avatar image using picsum.photos."},
			"reason": {Type: genai.TypeString, Description: "A short, compelling reason in Arabic explaining why this expert is recommended for the user."},
		},
		Required: []string{"id", "name", "skill", "rating", "avatar", "reason"},
	},
}

// suggestionsSchema wraps the suggestion list in an object so the model
// cannot return a bare string.
var suggestionsSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"suggestions": {
			Type:        genai.TypeArray,
			Description: "An array of 3 concise, actionable suggestions in Arabic to improve the user's profile.",
			Items:       &genai.Schema{Type: genai.TypeString},
		},
	},
	Required: []string{"suggestions"},
}

// Gateway wraps the generative model behind the platform's four operations,
// normalizing every failure into a render-safe fallback. Operations are
// independent; a failure in one cannot corrupt another.
type Gateway struct {
	gen    Generator
	logger zerolog.Logger
}

// NewGateway constructs a Gateway on top of the given Generator.
func NewGateway(gen Generator) *Gateway {
	return &Gateway{
		gen:    gen,
		logger: logx.Logger().With().Str("component", "ai_gateway").Logger(),
	}
}

// Recommendations generates expert recommendations for the given interest.
// The result is never empty: on any failure (network, parse, schema mismatch)
// it falls back to a deterministic three-expert sample derived from the
// interest alone.
func (g *Gateway) Recommendations(ctx context.Context, interest string) []Recommendation {
	req := Request{
		Turns:          []Turn{{Role: RoleUser, Text: fmt.Sprintf(recommendationPrompt, interest)}},
		ResponseSchema: recommendationSchema,
		Temperature:    genai.Ptr[float32](0.8),
	}

	raw, err := g.gen.Generate(ctx, req)
	if err != nil {
		g.logger.Error().Err(err).Str("interest", interest).Msg("Recommendation generation failed. Serving fallback sample.")
		return FallbackRecommendations(interest)
	}

	var recommendations []Recommendation
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &recommendations); err != nil {
		g.logger.Error().Err(err).Str("interest", interest).Msg("Recommendation response did not match schema. Serving fallback sample.")
		return FallbackRecommendations(interest)
	}

	if len(recommendations) == 0 {
		g.logger.Warn().Str("interest", interest).Msg("Model returned zero recommendations. Serving fallback sample.")
		return FallbackRecommendations(interest)
	}

	return recommendations
}

// FallbackRecommendations builds the static sample experts shown when the
// model is unreachable. Purely local: derived from the interest text, no
// network involved.
func FallbackRecommendations(interest string) []Recommendation {
	return []Recommendation{
		{
			ID:     "dummy1",
			Name:   "خالد الصالح",
			Skill:  fmt.Sprintf("مقدمة في %s", interest),
			Rating: 4.8,
			Avatar: "https://picsum.photos/seed/khalid/100/100",
			Reason: "لديه خبرة واسعة في هذا المجال ويقدم شروحات مبسطة.",
		},
		{
			ID:     "dummy2",
			Name:   "نورة المحمد",
			Skill:  fmt.Sprintf("تقنيات متقدمة في %s", interest),
			Rating: 4.9,
			Avatar: "https://picsum.photos/seed/noura/100/100",
			Reason: "خبيرة معتمدة وحاصلة على تقييمات ممتازة من المتعلمين.",
		},
		{
			ID:     "dummy3",
			Name:   "عبدالعزيز التركي",
			Skill:  fmt.Sprintf("%s للمبتدئين", interest),
			Rating: 4.7,
			Avatar: "https://picsum.photos/seed/aziz/100/100",
			Reason: "أسلوبه صبور ومناسب لمن يبدأ من الصفر.",
		},
	}
}

// ProfileSuggestions generates improvement suggestions for a profile bio.
// The result is never empty: on failure it contains exactly one human-readable
// Arabic notice explaining that suggestions could not be fetched.
func (g *Gateway) ProfileSuggestions(ctx context.Context, bio string) []string {
	req := Request{
		Turns:          []Turn{{Role: RoleUser, Text: fmt.Sprintf(suggestionsPrompt, bio)}},
		ResponseSchema: suggestionsSchema,
		Temperature:    genai.Ptr[float32](0.7),
	}

	raw, err := g.gen.Generate(ctx, req)
	if err != nil {
		g.logger.Error().Err(err).Msg("Profile suggestion generation failed. Serving failure notice.")
		return []string{suggestionsFailureNotice}
	}

	var wrapped struct {
		Suggestions []string `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &wrapped); err != nil {
		g.logger.Error().Err(err).Msg("Profile suggestion response did not match schema. Serving failure notice.")
		return []string{suggestionsFailureNotice}
	}

	if len(wrapped.Suggestions) == 0 {
		g.logger.Warn().Msg("Model returned zero profile suggestions. Serving failure notice.")
		return []string{suggestionsFailureNotice}
	}

	return wrapped.Suggestions
}

// ClassifyMessage runs the content safety classifier over a chat message.
// Only a response that trims and uppercases to exactly "FLAGGED" flags the
// message; every other response, including a failed call, is safe.
func (g *Gateway) ClassifyMessage(ctx context.Context, text string) Verdict {
	req := Request{
		Turns:           []Turn{{Role: RoleUser, Text: fmt.Sprintf(moderationPrompt, text)}},
		Temperature:     genai.Ptr[float32](0),
		DisableThinking: true,
	}

	raw, err := g.gen.Generate(ctx, req)
	if err != nil {
		// Fail open: a moderation outage must not block sends.
		g.logger.Error().Err(err).Msg("Message moderation failed. Defaulting to safe.")
		return VerdictSafe
	}

	if strings.ToUpper(strings.TrimSpace(raw)) == "FLAGGED" {
		return VerdictFlagged
	}

	return VerdictSafe
}

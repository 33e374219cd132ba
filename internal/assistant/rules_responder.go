package assistant

import (
	"context"

	"ukuvi-assistant/internal/rules"
)

const RulesResponderName = "rules"

// RuleResponder answers from the keyword rule table. It never fails.
type RuleResponder struct {
	source rules.Source
}

func NewRuleResponder(source rules.Source) *RuleResponder {
	return &RuleResponder{source: source}
}

func (r *RuleResponder) Name() string {
	return RulesResponderName
}

func (r *RuleResponder) Respond(ctx context.Context, req Request) (Reply, error) {
	entry := r.source.Table().Select(req.Message)
	return Reply{
		Text:      entry.Response,
		Responder: RulesResponderName,
		Rule:      entry.Name,
	}, nil
}

package service

import (
	"encoding/json"
	"fmt"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"

	"github.com/soloviev-vladislav/telegram-userbot-api/internal/domain/model"
)

// JMESPathEvaluator abstracts JMESPath operations for testability.
type JMESPathEvaluator interface {
	Validate(expr string) error
	Evaluate(expr string, data any) (any, error)
}

// jmespathLibEvaluator implements JMESPathEvaluator using go-jmespath.
type jmespathLibEvaluator struct{}

func (j jmespathLibEvaluator) Validate(expr string) error {
	if strings.TrimSpace(expr) == "" {
		return nil
	}
	_, err := jmespath.Compile(expr)
	return err
}

func (j jmespathLibEvaluator) Evaluate(expr string, data any) (any, error) {
	return jmespath.Search(expr, data)
}

// filterResults applies the caller's JMESPath expression to the serialized
// result sequence and returns whatever shape the expression produces. A blank
// expression passes the results through unchanged.
//
// The filter only affects the delivered webhook body; the registry always
// keeps the full result records.
func filterResults(eval JMESPathEvaluator, expr string, results []model.LookupResult) (any, error) {
	if strings.TrimSpace(expr) == "" {
		return results, nil
	}

	// Round-trip through JSON so the expression sees the wire field names
	// (telegram_id, formatted_phone, ...) rather than Go struct fields.
	raw, err := json.Marshal(results)
	if err != nil {
		return nil, fmt.Errorf("marshal results: %w", err)
	}
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("unmarshal results: %w", err)
	}

	out, err := eval.Evaluate(expr, data)
	if err != nil {
		return nil, fmt.Errorf("evaluate results filter: %w", err)
	}
	return out, nil
}

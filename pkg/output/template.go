package output

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

var (
	expressionPattern = regexp.MustCompile(`\{\{([^}]+)\}\}`)
	variablePattern   = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_\.]*)\}`)
)

// TemplateEngine provides message template rendering with variable interpolation.
// It supports both simple variable substitution (e.g., {name}) and expr expressions
// (e.g., {{count * 2}}). It is safe for concurrent use.
type TemplateEngine struct {
	mu           sync.Mutex
	programCache map[string]*vm.Program
}

// NewTemplateEngine creates a new template engine.
func NewTemplateEngine() *TemplateEngine {
	return &TemplateEngine{
		programCache: make(map[string]*vm.Program),
	}
}

// Render renders a template string with the given data. Expressions are
// evaluated before simple variables.
func (t *TemplateEngine) Render(template string, data map[string]interface{}) (string, error) {
	if template == "" {
		return "", nil
	}
	if data == nil {
		data = make(map[string]interface{})
	}

	result, err := t.processExpressions(template, data)
	if err != nil {
		return "", err
	}
	return processVariables(result, data)
}

// processExpressions processes {{ expr }} style expressions.
func (t *TemplateEngine) processExpressions(template string, data map[string]interface{}) (string, error) {
	var lastErr error
	result := expressionPattern.ReplaceAllStringFunc(template, func(match string) string {
		expression := strings.TrimSpace(match[2 : len(match)-2])

		value, err := t.evaluateExpression(expression, data)
		if err != nil {
			lastErr = err
			return match
		}
		return fmt.Sprint(value)
	})

	if lastErr != nil {
		return "", fmt.Errorf("failed to evaluate expression: %w", lastErr)
	}
	return result, nil
}

// processVariables processes {variable} style simple variable substitution.
func processVariables(template string, data map[string]interface{}) (string, error) {
	var lastErr error
	result := variablePattern.ReplaceAllStringFunc(template, func(match string) string {
		varPath := strings.TrimSpace(match[1 : len(match)-1])

		value, err := resolveVariable(varPath, data)
		if err != nil {
			lastErr = err
			return match
		}
		return fmt.Sprint(value)
	})

	if lastErr != nil {
		return "", fmt.Errorf("failed to resolve variable: %w", lastErr)
	}
	return result, nil
}

// evaluateExpression evaluates an expr expression, caching the program.
func (t *TemplateEngine) evaluateExpression(expression string, data map[string]interface{}) (interface{}, error) {
	t.mu.Lock()
	program, ok := t.programCache[expression]
	t.mu.Unlock()

	if !ok {
		var err error
		program, err = expr.Compile(expression, expr.Env(data), expr.AllowUndefinedVariables())
		if err != nil {
			return nil, fmt.Errorf("failed to compile expression '%s': %w", expression, err)
		}
		t.mu.Lock()
		t.programCache[expression] = program
		t.mu.Unlock()
	}

	result, err := expr.Run(program, data)
	if err != nil {
		return nil, fmt.Errorf("failed to execute expression '%s': %w", expression, err)
	}
	return result, nil
}

// resolveVariable resolves a variable path like "name" or "item.status".
func resolveVariable(path string, data map[string]interface{}) (interface{}, error) {
	var current interface{} = data

	for _, part := range strings.Split(path, ".") {
		switch v := current.(type) {
		case map[string]interface{}:
			val, ok := v[part]
			if !ok {
				return nil, fmt.Errorf("variable '%s' not found", path)
			}
			current = val
		case map[string]string:
			val, ok := v[part]
			if !ok {
				return nil, fmt.Errorf("variable '%s' not found", path)
			}
			current = val
		default:
			return nil, fmt.Errorf("cannot access field '%s' on non-map type", part)
		}
	}
	return current, nil
}

// MessageTemplates is a named set of message templates sharing one engine.
type MessageTemplates struct {
	engine    *TemplateEngine
	templates map[string]string
}

// NewMessageTemplates creates a template set from name/template pairs.
func NewMessageTemplates(templates map[string]string) *MessageTemplates {
	return &MessageTemplates{
		engine:    NewTemplateEngine(),
		templates: templates,
	}
}

// Render renders a template by name with the given data.
func (m *MessageTemplates) Render(name string, data map[string]interface{}) (string, error) {
	template, ok := m.templates[name]
	if !ok {
		return "", fmt.Errorf("template '%s' not found", name)
	}
	return m.engine.Render(template, data)
}

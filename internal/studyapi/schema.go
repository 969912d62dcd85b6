package studyapi

// payloadSchema names a JSON Schema used to validate a backend payload
// before decoding.
type payloadSchema struct {
	Name       string
	Definition map[string]any
}

// quizPayloadSchema guards quiz generation responses. It stays loose on
// purpose: ids may arrive as numbers or strings, and written questions have
// no options, so only the envelope and per-question basics are enforced.
var quizPayloadSchema = &payloadSchema{
	Name: "quiz-payload",
	Definition: map[string]any{
		"type":     "object",
		"required": []any{"quiz"},
		"properties": map[string]any{
			"quiz": map[string]any{
				"type":     "object",
				"required": []any{"title", "questions"},
				"properties": map[string]any{
					"title": map[string]any{"type": "string"},
					"questions": map[string]any{
						"type":     "array",
						"minItems": 1,
						"items": map[string]any{
							"type":     "object",
							"required": []any{"id", "question"},
							"properties": map[string]any{
								"id":       map[string]any{"type": []any{"integer", "string"}},
								"question": map[string]any{"type": "string", "minLength": 1},
								"options": map[string]any{
									"type": "array",
									"items": map[string]any{
										"type":     "object",
										"required": []any{"label", "text"},
										"properties": map[string]any{
											"label": map[string]any{"type": "string", "enum": []any{"A", "B", "C", "D"}},
											"text":  map[string]any{"type": "string"},
										},
									},
								},
								"answer":      map[string]any{"type": "string"},
								"explanation": map[string]any{"type": "string"},
							},
						},
					},
				},
			},
			"provider": map[string]any{"type": "string"},
		},
	},
}

// mindmapPayloadSchema guards mind-map generation responses. The node shape
// is recursive; the backend normalizes the root id to "root" and caps depth
// and node count server side, so only structure is checked here.
var mindmapPayloadSchema = &payloadSchema{
	Name: "mindmap-payload",
	Definition: map[string]any{
		"type":     "object",
		"required": []any{"mindmap"},
		"properties": map[string]any{
			"mindmap": map[string]any{
				"type":     "object",
				"required": []any{"title", "root"},
				"properties": map[string]any{
					"title": map[string]any{"type": "string"},
					"root":  map[string]any{"$ref": "#/$defs/node"},
				},
			},
			"provider": map[string]any{"type": "string"},
		},
		"$defs": map[string]any{
			"node": map[string]any{
				"type":     "object",
				"required": []any{"id", "label"},
				"properties": map[string]any{
					"id":    map[string]any{"type": "string", "minLength": 1},
					"label": map[string]any{"type": "string"},
					"children": map[string]any{
						"type":  "array",
						"items": map[string]any{"$ref": "#/$defs/node"},
					},
				},
			},
		},
	},
}

package model

import "encoding/json"

// PolicyVersion is the policy language version stamped on synthesized documents.
const PolicyVersion = "2012-10-17"

// Statement is one policy statement kept as an opaque mapping. Bucket
// policies in the wild are hand-edited; fields may be missing, duplicated
// or hold unexpected shapes, so access goes through defensive getters
// that treat absence as absence, never as an error.
type Statement map[string]any

// Sid returns the statement ID, or "" when missing or non-string.
func (s Statement) Sid() string {
	sid, _ := s["Sid"].(string)
	return sid
}

// Effect returns the statement effect, or "" when missing or non-string.
func (s Statement) Effect() string {
	effect, _ := s["Effect"].(string)
	return effect
}

// PrincipalIsWildcard reports whether Principal is exactly the string "*".
func (s Statement) PrincipalIsWildcard() bool {
	p, ok := s["Principal"].(string)
	return ok && p == "*"
}

// ActionIs reports whether Action is exactly the given single string.
func (s Statement) ActionIs(action string) bool {
	a, ok := s["Action"].(string)
	return ok && a == action
}

// ResourceList returns Resource when it is a sequence, or nil otherwise.
// A scalar Resource is a valid policy shape but not the canonical one,
// so it deliberately comes back nil here.
func (s Statement) ResourceList() []any {
	list, _ := s["Resource"].([]any)
	return list
}

// ConditionBool returns the value of Condition.Bool[key], or "" when any
// level of the nesting is missing or the wrong shape.
func (s Statement) ConditionBool(key string) string {
	cond, ok := s["Condition"].(map[string]any)
	if !ok {
		return ""
	}
	b, ok := cond["Bool"].(map[string]any)
	if !ok {
		return ""
	}
	v, _ := b[key].(string)
	return v
}

// Clone returns a shallow copy of the statement. Reconcilers clone before
// rebuilding statement lists so the caller's document is never mutated.
func (s Statement) Clone() Statement {
	out := make(Statement, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// PolicyDocument is a bucket policy as stored by S3: a version string and
// an ordered statement list. Statement order is preserved across
// round-trips except where reconciliation removes or appends entries.
type PolicyDocument struct {
	Version   string      `json:"Version"`
	Statement []Statement `json:"Statement"`
}

// NewPolicyDocument returns an empty document with the current policy version.
func NewPolicyDocument() *PolicyDocument {
	return &PolicyDocument{Version: PolicyVersion, Statement: []Statement{}}
}

// UnmarshalJSON accepts both the list form and the single-object form of
// the Statement field; S3 serves both.
func (d *PolicyDocument) UnmarshalJSON(data []byte) error {
	var raw struct {
		Version   string          `json:"Version"`
		Statement json.RawMessage `json:"Statement"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	d.Version = raw.Version
	d.Statement = nil

	if len(raw.Statement) == 0 {
		return nil
	}

	var list []Statement
	if err := json.Unmarshal(raw.Statement, &list); err == nil {
		d.Statement = list
		return nil
	}

	var single Statement
	if err := json.Unmarshal(raw.Statement, &single); err != nil {
		return err
	}
	d.Statement = []Statement{single}
	return nil
}

// Clone returns a copy with a fresh statement slice and cloned statements.
func (d *PolicyDocument) Clone() *PolicyDocument {
	out := &PolicyDocument{Version: d.Version, Statement: make([]Statement, 0, len(d.Statement))}
	for _, s := range d.Statement {
		out.Statement = append(out.Statement, s.Clone())
	}
	return out
}

// JSON renders the document for display and for PutBucketPolicy.
func (d *PolicyDocument) JSON() (string, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

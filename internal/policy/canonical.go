package policy

import (
	"fmt"

	"github.com/ppiankov/s3warden/internal/model"
)

// CanonicalSid is the statement ID of the compliant transport-deny statement.
const CanonicalSid = "DenyInsecureTransport"

// CanonicalStatement synthesizes the one statement shape counted as
// compliant: deny every S3 action to every principal over insecure
// transport, scoped to the bucket and its objects.
func CanonicalStatement(bucket string) model.Statement {
	return model.Statement{
		"Sid":       CanonicalSid,
		"Effect":    "Deny",
		"Principal": "*",
		"Action":    "s3:*",
		"Resource": []any{
			fmt.Sprintf("arn:aws:s3:::%s", bucket),
			fmt.Sprintf("arn:aws:s3:::%s/*", bucket),
		},
		"Condition": map[string]any{
			"Bool": map[string]any{"aws:SecureTransport": "false"},
		},
	}
}

// isTransportDeny reports whether a statement denies on insecure
// transport at all, complete or not.
func isTransportDeny(s model.Statement) bool {
	return s.Effect() == "Deny" && s.ConditionBool("aws:SecureTransport") == "false"
}

// isComplete reports whether a transport-deny statement has every
// canonical field. Callers must have already established isTransportDeny.
func isComplete(s model.Statement) bool {
	return s.Sid() == CanonicalSid &&
		s.PrincipalIsWildcard() &&
		s.ActionIs("s3:*") &&
		len(s.ResourceList()) == 2
}

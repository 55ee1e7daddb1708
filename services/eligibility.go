package services

import (
	"fmt"
	"strings"

	"github.com/campusgate/admissions-api/model"
)

// Eligibility is the verdict for one (student, program) pair. CanApply is
// true iff Reasons is empty; Reasons lists every failing check in evaluation
// order so callers can render a complete explanation.
type Eligibility struct {
	CanApply bool     `json:"can_apply"`
	Reasons  []string `json:"reasons"`
}

// EvaluateEligibility decides whether a student may apply to a program.
// It is a pure function over its inputs and accumulates all failures rather
// than short-circuiting. Both the browse view and the application submission
// path go through here; they must never diverge.
func EvaluateEligibility(user *model.User, profile *model.StudentProfile, program *model.Program, hasExistingApplication bool) Eligibility {
	reasons := []string{}

	if !user.IsVerified {
		reasons = append(reasons, "Your account is pending admin verification")
	}

	if profile.SSCVerificationStatus != model.CredentialVerified {
		reasons = append(reasons, "Your SSC needs admin verification")
	}

	if profile.HSCVerificationStatus != model.CredentialVerified {
		reasons = append(reasons, "Your HSC needs admin verification")
	}

	if profile.SSCGPA < program.MinSSCGPA {
		reasons = append(reasons, fmt.Sprintf("SSC GPA %.2f is below requirement of %.2f", profile.SSCGPA, program.MinSSCGPA))
	}

	if profile.HSCGPA < program.MinHSCGPA {
		reasons = append(reasons, fmt.Sprintf("HSC GPA %.2f is below requirement of %.2f", profile.HSCGPA, program.MinHSCGPA))
	}

	// Empty or "any" (case-insensitive, trimmed) means no group restriction.
	// A concrete requirement is compared exactly, case-sensitive.
	required := strings.ToLower(strings.TrimSpace(program.GroupRequired))
	if required != "" && required != "any" && profile.HSCGroup != program.GroupRequired {
		reasons = append(reasons, fmt.Sprintf("Program requires %s, you have %s", program.GroupRequired, profile.HSCGroup))
	}

	if hasExistingApplication {
		reasons = append(reasons, "You have already applied to this program")
	}

	return Eligibility{
		CanApply: len(reasons) == 0,
		Reasons:  reasons,
	}
}

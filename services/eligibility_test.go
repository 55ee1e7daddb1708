package services

import (
	"reflect"
	"testing"

	"github.com/campusgate/admissions-api/model"
)

func verifiedStudent() (*model.User, *model.StudentProfile) {
	user := &model.User{ID: 1, IsVerified: true}
	profile := &model.StudentProfile{
		ID:                    1,
		UserID:                1,
		SSCGPA:                4.5,
		SSCGroup:              "Science",
		SSCVerificationStatus: model.CredentialVerified,
		HSCGPA:                4.2,
		HSCGroup:              "Science",
		HSCVerificationStatus: model.CredentialVerified,
	}
	return user, profile
}

func TestEvaluateEligibilityPasses(t *testing.T) {
	user, profile := verifiedStudent()
	program := &model.Program{MinSSCGPA: 4.0, MinHSCGPA: 4.0, GroupRequired: "Science"}

	result := EvaluateEligibility(user, profile, program, false)
	if !result.CanApply {
		t.Fatalf("expected eligible, got reasons %v", result.Reasons)
	}
	if len(result.Reasons) != 0 {
		t.Errorf("expected no reasons, got %v", result.Reasons)
	}
}

func TestEvaluateEligibilityAccumulatesAllFailures(t *testing.T) {
	user := &model.User{ID: 1, IsVerified: false}
	profile := &model.StudentProfile{
		SSCGPA:                3.0,
		SSCVerificationStatus: model.CredentialPending,
		HSCGPA:                3.0,
		HSCGroup:              "Commerce",
		HSCVerificationStatus: model.CredentialPending,
	}
	program := &model.Program{MinSSCGPA: 4.0, MinHSCGPA: 4.0, GroupRequired: "Science"}

	result := EvaluateEligibility(user, profile, program, true)
	if result.CanApply {
		t.Fatal("expected ineligible")
	}

	want := []string{
		"Your account is pending admin verification",
		"Your SSC needs admin verification",
		"Your HSC needs admin verification",
		"SSC GPA 3.00 is below requirement of 4.00",
		"HSC GPA 3.00 is below requirement of 4.00",
		"Program requires Science, you have Commerce",
		"You have already applied to this program",
	}
	if !reflect.DeepEqual(result.Reasons, want) {
		t.Errorf("reasons mismatch\ngot:  %v\nwant: %v", result.Reasons, want)
	}
}

func TestEvaluateEligibilitySingleCredentialPending(t *testing.T) {
	user, profile := verifiedStudent()
	user.IsVerified = false
	profile.HSCVerificationStatus = model.CredentialPending
	program := &model.Program{MinSSCGPA: 4.0, MinHSCGPA: 4.0}

	result := EvaluateEligibility(user, profile, program, false)
	want := []string{
		"Your account is pending admin verification",
		"Your HSC needs admin verification",
	}
	if !reflect.DeepEqual(result.Reasons, want) {
		t.Errorf("reasons mismatch\ngot:  %v\nwant: %v", result.Reasons, want)
	}
}

func TestEvaluateEligibilityGroupRequirement(t *testing.T) {
	tests := []struct {
		name          string
		groupRequired string
		hscGroup      string
		wantEligible  bool
	}{
		{"empty requirement is unconstrained", "", "Commerce", true},
		{"any is unconstrained", "any", "Arts", true},
		{"Any with whitespace is unconstrained", "  Any ", "Commerce", true},
		{"exact match passes", "Science", "Science", true},
		{"mismatch fails", "Science", "Commerce", false},
		{"comparison is case sensitive", "Science", "science", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, profile := verifiedStudent()
			profile.HSCGroup = tt.hscGroup
			program := &model.Program{GroupRequired: tt.groupRequired}

			result := EvaluateEligibility(user, profile, program, false)
			if result.CanApply != tt.wantEligible {
				t.Errorf("CanApply = %v, want %v (reasons %v)", result.CanApply, tt.wantEligible, result.Reasons)
			}
		})
	}
}

func TestEvaluateEligibilityGPABoundary(t *testing.T) {
	user, profile := verifiedStudent()
	profile.SSCGPA = 4.0
	profile.HSCGPA = 4.0
	program := &model.Program{MinSSCGPA: 4.0, MinHSCGPA: 4.0}

	result := EvaluateEligibility(user, profile, program, false)
	if !result.CanApply {
		t.Errorf("GPA equal to the minimum should pass, got %v", result.Reasons)
	}
}

func TestEvaluateEligibilityIsDeterministic(t *testing.T) {
	user, profile := verifiedStudent()
	user.IsVerified = false
	profile.SSCGPA = 2.0
	program := &model.Program{MinSSCGPA: 4.0}

	first := EvaluateEligibility(user, profile, program, false)
	for i := 0; i < 10; i++ {
		again := EvaluateEligibility(user, profile, program, false)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs: %v vs %v", i, first, again)
		}
	}
}

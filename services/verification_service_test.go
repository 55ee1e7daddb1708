package services

import (
	"testing"
	"time"

	"github.com/campusgate/admissions-api/model"
)

func verifiedProfile() *model.StudentProfile {
	adminID := uint(9)
	now := time.Now()
	return &model.StudentProfile{
		SSCGPA:                4.5,
		SSCGroup:              "Science",
		SSCBoard:              "Dhaka",
		SSCYear:               2019,
		SSCRollNumber:         "112233",
		SSCVerificationStatus: model.CredentialVerified,
		SSCVerifiedBy:         &adminID,
		SSCVerifiedAt:         &now,
		HSCGPA:                4.2,
		HSCGroup:              "Science",
		HSCBoard:              "Dhaka",
		HSCYear:               2021,
		HSCRollNumber:         "445566",
		HSCVerificationStatus: model.CredentialVerified,
		HSCVerifiedBy:         &adminID,
		HSCVerifiedAt:         &now,
	}
}

func TestApplyCredentialEditsUnchangedKeepsVerification(t *testing.T) {
	profile := verifiedProfile()

	reset := ApplyCredentialEdits(profile, profile.SSCRecord(), profile.HSCRecord())
	if reset {
		t.Fatal("identical records must not reset verification")
	}
	if profile.SSCVerificationStatus != model.CredentialVerified {
		t.Errorf("SSC status = %q, want verified", profile.SSCVerificationStatus)
	}
	if profile.HSCVerificationStatus != model.CredentialVerified {
		t.Errorf("HSC status = %q, want verified", profile.HSCVerificationStatus)
	}
}

func TestApplyCredentialEditsChangedSSCResetsOnlySSC(t *testing.T) {
	profile := verifiedProfile()
	newSSC := profile.SSCRecord()
	newSSC.GPA = 5.0

	reset := ApplyCredentialEdits(profile, newSSC, profile.HSCRecord())
	if !reset {
		t.Fatal("changed SSC record must reset verification")
	}
	if profile.SSCVerificationStatus != model.CredentialPending {
		t.Errorf("SSC status = %q, want pending", profile.SSCVerificationStatus)
	}
	if profile.SSCVerifiedBy != nil || profile.SSCVerifiedAt != nil {
		t.Error("SSC verifier fields must be cleared on reset")
	}
	if profile.HSCVerificationStatus != model.CredentialVerified {
		t.Errorf("HSC status = %q, want verified (untouched)", profile.HSCVerificationStatus)
	}
	if profile.SSCGPA != 5.0 {
		t.Errorf("SSC GPA = %v, want 5.0", profile.SSCGPA)
	}
}

func TestApplyCredentialEditsClearsRejectionOnChange(t *testing.T) {
	profile := verifiedProfile()
	reason := "Roll number does not match board records"
	profile.HSCVerificationStatus = model.CredentialRejected
	profile.HSCRejectionReason = &reason

	newHSC := profile.HSCRecord()
	newHSC.RollNumber = "998877"

	reset := ApplyCredentialEdits(profile, profile.SSCRecord(), newHSC)
	if !reset {
		t.Fatal("changed HSC record must reset verification")
	}
	if profile.HSCVerificationStatus != model.CredentialPending {
		t.Errorf("HSC status = %q, want pending", profile.HSCVerificationStatus)
	}
	if profile.HSCRejectionReason != nil {
		t.Error("rejection reason must be cleared when the record changes")
	}
}

func TestApplyCredentialEditsProfileCompleteness(t *testing.T) {
	profile := &model.StudentProfile{}

	full := model.CredentialRecord{GPA: 4.0, Group: "Science", Board: "Dhaka", Year: 2020, RollNumber: "123"}
	partial := model.CredentialRecord{GPA: 4.0, Group: "Science"}

	ApplyCredentialEdits(profile, full, partial)
	if profile.IsProfileComplete {
		t.Error("profile with a partial credential must not be complete")
	}

	ApplyCredentialEdits(profile, full, full)
	if !profile.IsProfileComplete {
		t.Error("profile with both credentials populated must be complete")
	}
}

func TestBothCredentialsVerified(t *testing.T) {
	profile := verifiedProfile()
	if !profile.BothCredentialsVerified() {
		t.Fatal("expected both credentials verified")
	}

	profile.HSCVerificationStatus = model.CredentialPending
	if profile.BothCredentialsVerified() {
		t.Fatal("one pending credential must fail the check")
	}
}

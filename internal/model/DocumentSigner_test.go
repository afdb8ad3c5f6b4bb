package model

import (
	"testing"

	"github.com/gespro/gespro-api/internal/constant"
)

func signer(userId string, signed, rejected bool) DocumentSigner {
	return DocumentSigner{UserID: userId, Signed: signed, Rejected: rejected}
}

func TestAllSigned(t *testing.T) {
	tests := []struct {
		name    string
		signers []DocumentSigner
		want    bool
	}{
		{"No signers never completes", []DocumentSigner{}, false},
		{"Single pending signer", []DocumentSigner{signer("a", false, false)}, false},
		{"Single signed signer", []DocumentSigner{signer("a", true, false)}, true},
		{"One signed one pending", []DocumentSigner{signer("a", true, false), signer("b", false, false)}, false},
		{"All signed", []DocumentSigner{signer("a", true, false), signer("b", true, false)}, true},
		{"Rejected signer is excluded", []DocumentSigner{signer("a", true, false), signer("b", false, true)}, true},
		{"Everyone rejected never completes", []DocumentSigner{signer("a", false, true), signer("b", false, true)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AllSigned(tt.signers); got != tt.want {
				t.Errorf("AllSigned() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPendingSignerIds(t *testing.T) {
	signers := []DocumentSigner{
		signer("a", true, false),
		signer("b", false, false),
		signer("c", false, true),
		signer("d", false, false),
	}

	got := PendingSignerIds(signers)
	want := []string{"b", "d"}

	if len(got) != len(want) {
		t.Fatalf("PendingSignerIds() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("PendingSignerIds()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

// A signer whose row was signed or rejected, or whose version already left
// the pending state, must be refused even when the first authorization check
// passed earlier in the request.
func TestCanSign(t *testing.T) {
	version := func(status constant.DocumentVersionStatus) DocumentVersion {
		return DocumentVersion{Status: status}
	}

	tests := []struct {
		name    string
		version DocumentVersion
		signers []DocumentSigner
		userId  string
		want    bool
	}{
		{"Pending signer on pending version", version(constant.VersionStatusPending), []DocumentSigner{signer("a", false, false)}, "a", true},
		{"User already signed", version(constant.VersionStatusPending), []DocumentSigner{signer("a", true, false)}, "a", false},
		{"User already rejected", version(constant.VersionStatusPending), []DocumentSigner{signer("a", false, true)}, "a", false},
		{"User not on the roster", version(constant.VersionStatusPending), []DocumentSigner{signer("a", false, false)}, "b", false},
		{"Version rejected by another signer", version(constant.VersionStatusRejected), []DocumentSigner{signer("a", false, false)}, "a", false},
		{"Version already signed", version(constant.VersionStatusSigned), []DocumentSigner{signer("a", false, false)}, "a", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanSign(tt.version, tt.signers, tt.userId); got != tt.want {
				t.Errorf("CanSign() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSignerIsPending(t *testing.T) {
	if !signer("a", false, false).IsPending() {
		t.Error("expected untouched signer to be pending")
	}
	if signer("a", true, false).IsPending() {
		t.Error("expected signed signer to not be pending")
	}
	if signer("a", false, true).IsPending() {
		t.Error("expected rejected signer to not be pending")
	}
}

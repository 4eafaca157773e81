package cmd

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vanstudio/sequence-cli/internal/participant"
	"github.com/vanstudio/sequence-cli/internal/test"
)

func TestParticipantsCommand(t *testing.T) {
	got, err := execute(t, "participants", test.FixturePath(t, "login.yaml"))
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}

	want := strings.Join([]string{
		"1\tLoginController\tcom.example.web\t-\tlogin,audit,format",
		"2\tUserService\tcom.example.service\tinterface\tfindUser",
		"3\tUserRepository\torg.example.lib\texternal\tquery",
		"4\tSession\tcom.example.web\t-\tSession",
	}, "\n") + "\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteParticipantsDefaultPackage(t *testing.T) {
	t.Parallel()

	p := participant.New("Main", nil, 7, "")
	p.AddMethod(participant.Method{Name: "run", Seq: 7})
	p.AddMethod(participant.Method{Name: "step", Seq: 8})
	p.AddMethod(participant.Method{Name: "run", Seq: 9})

	var sb strings.Builder
	if err := writeParticipants(&sb, []*participant.Participant{p}); err != nil {
		t.Fatal(err)
	}

	want := "7\tMain\t<default>\t-\trun,step\n"
	if diff := cmp.Diff(want, sb.String()); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

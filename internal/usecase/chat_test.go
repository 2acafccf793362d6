package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"dataset-agent/internal/catalog"
	"dataset-agent/internal/domain"
)

type mockParams struct {
	vals  map[string]string
	err   error
	calls int
}

func (m *mockParams) GetOptional(_ context.Context, name string) (string, bool, error) {
	m.calls++
	if m.err != nil {
		return "", false, m.err
	}
	v, ok := m.vals[name]
	return v, ok, nil
}

func testService(t *testing.T, params ParamGetter) *ChatService {
	t.Helper()

	cat, err := catalog.Embedded()
	require.NoError(t, err)

	prefix := ""
	if params != nil {
		prefix = "/statchat/test"
	}
	svc, err := NewChatService(cat, params, prefix, 0)
	require.NoError(t, err)
	return svc
}

func TestNewChatService_Validates(t *testing.T) {
	_, err := NewChatService(catalog.Catalog{}, nil, "", 0)
	require.Error(t, err)

	cat, err := catalog.Embedded()
	require.NoError(t, err)
	_, err = NewChatService(cat, &mockParams{}, "  ", 0)
	require.Error(t, err)
}

func TestChat_RejectsEmptyMessage(t *testing.T) {
	svc := testService(t, nil)

	for _, msg := range []string{"", "   ", "\n\t"} {
		_, err := svc.Chat(context.Background(), ChatInput{Message: msg})
		var ucErr *Error
		require.ErrorAs(t, err, &ucErr)
		require.Equal(t, ErrorInvalidInput, ucErr.Code)
		require.Equal(t, "empty_message", ucErr.Reason)
	}
}

func TestChat_RejectsOversizedMessage(t *testing.T) {
	svc := testService(t, nil)

	_, err := svc.Chat(context.Background(), ChatInput{Message: strings.Repeat("a", 501)})
	var ucErr *Error
	require.ErrorAs(t, err, &ucErr)
	require.Equal(t, ErrorInvalidInput, ucErr.Code)
	require.Equal(t, "message_too_long", ucErr.Reason)
}

func TestChat_MintsConversationID(t *testing.T) {
	svc := testService(t, nil)

	orig := newUUID
	newUUID = func() string { return "fixed-uuid" }
	defer func() { newUUID = orig }()

	out, err := svc.Chat(context.Background(), ChatInput{Message: "halo"})
	require.NoError(t, err)
	require.Equal(t, "fixed-uuid", out.ConversationID)

	out, err = svc.Chat(context.Background(), ChatInput{Message: "halo", ConversationID: "conv-1"})
	require.NoError(t, err)
	require.Equal(t, "conv-1", out.ConversationID)
}

func TestChat_IdentityScenario(t *testing.T) {
	svc := testService(t, nil)

	out, err := svc.Chat(context.Background(), ChatInput{Message: "siapa kamu"})
	require.NoError(t, err)
	require.Equal(t, domain.IntentIdentity, out.Intent)
	require.Contains(t, out.Reply, "asisten virtual")
	require.Empty(t, out.Sources)
}

func TestChat_EducationScenario(t *testing.T) {
	svc := testService(t, nil)

	out, err := svc.Chat(context.Background(), ChatInput{Message: "data pendidikan"})
	require.NoError(t, err)
	require.Equal(t, domain.IntentInformation, out.Intent)
	require.Contains(t, out.Reply, "Statistik Pendidikan Kota Medan")
	require.Contains(t, out.Reply, "Angka partisipasi sekolah")
	require.Len(t, out.Sources, 1)
	require.Equal(t, "Statistik Pendidikan Kota Medan", out.Sources[0].Title)
	require.NotEmpty(t, out.Sources[0].URL)
}

func TestChat_NoMatchCitesPortal(t *testing.T) {
	svc := testService(t, nil)

	out, err := svc.Chat(context.Background(), ChatInput{Message: "xyzxyz bukan kata kunci"})
	require.NoError(t, err)
	require.Equal(t, domain.IntentInformation, out.Intent)
	require.Contains(t, out.Reply, "tidak menemukan data")
	require.Len(t, out.Sources, 1)
	require.Equal(t, catalog.DefaultPortalURL, out.Sources[0].URL)
}

func TestChat_AppliesRemoteOverrides(t *testing.T) {
	params := &mockParams{vals: map[string]string{
		"/statchat/test/portal_url":     "https://portal.example.org",
		"/statchat/test/identity_reply": "identitas uji",
	}}
	svc := testService(t, params)

	out, err := svc.Chat(context.Background(), ChatInput{Message: "siapa kamu"})
	require.NoError(t, err)
	require.Equal(t, "identitas uji", out.Reply)

	out, err = svc.Chat(context.Background(), ChatInput{Message: "xyzxyz"})
	require.NoError(t, err)
	require.Equal(t, "https://portal.example.org", out.Sources[0].URL)
}

func TestChat_LoadsOverridesOnce(t *testing.T) {
	params := &mockParams{}
	svc := testService(t, params)

	for i := 0; i < 3; i++ {
		_, err := svc.Chat(context.Background(), ChatInput{Message: "halo"})
		require.NoError(t, err)
	}
	// Four parameters are read, all during the first call.
	require.Equal(t, 4, params.calls)
}

func TestChat_ParamErrorIsInternal(t *testing.T) {
	params := &mockParams{err: errors.New("ssm down")}
	svc := testService(t, params)

	_, err := svc.Chat(context.Background(), ChatInput{Message: "halo"})
	var ucErr *Error
	require.ErrorAs(t, err, &ucErr)
	require.Equal(t, ErrorInternal, ucErr.Code)
	require.Equal(t, "ssm_load_error", ucErr.Reason)
}

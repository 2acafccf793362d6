package paramstore

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/require"
)

type mockSSM struct {
	out  *ssm.GetParameterOutput
	err  error
	name string
}

func (m *mockSSM) GetParameter(_ context.Context, in *ssm.GetParameterInput, _ ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	if in.Name != nil {
		m.name = *in.Name
	}
	return m.out, m.err
}

func paramOutput(value string) *ssm.GetParameterOutput {
	return &ssm.GetParameterOutput{
		Parameter: &types.Parameter{Value: &value},
	}
}

func TestNew_ValidatesAPI(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)
}

func TestGetParameter(t *testing.T) {
	api := &mockSSM{out: paramOutput("nilai")}
	c, err := New(api)
	require.NoError(t, err)

	v, err := c.GetParameter(context.Background(), " /statchat/portal_url ")
	require.NoError(t, err)
	require.Equal(t, "nilai", v)
	require.Equal(t, "/statchat/portal_url", api.name, "name is trimmed before the call")
}

func TestGetParameter_RequiresName(t *testing.T) {
	c, err := New(&mockSSM{out: paramOutput("x")})
	require.NoError(t, err)

	_, err = c.GetParameter(context.Background(), "  ")
	require.Error(t, err)
}

func TestGetParameter_MissingValue(t *testing.T) {
	c, err := New(&mockSSM{out: &ssm.GetParameterOutput{}})
	require.NoError(t, err)

	_, err = c.GetParameter(context.Background(), "/statchat/portal_url")
	require.Error(t, err)
}

func TestGetOptional_AbsentParameterIsNotAnError(t *testing.T) {
	api := &mockSSM{err: &types.ParameterNotFound{}}
	c, err := New(api)
	require.NoError(t, err)

	v, ok, err := c.GetOptional(context.Background(), "/statchat/portal_url")
	require.NoError(t, err)
	require.False(t, ok)
	require.Empty(t, v)
}

func TestGetOptional_PropagatesOtherErrors(t *testing.T) {
	api := &mockSSM{err: errors.New("throttled")}
	c, err := New(api)
	require.NoError(t, err)

	_, _, err = c.GetOptional(context.Background(), "/statchat/portal_url")
	require.Error(t, err)
}

func TestGetOptional_Present(t *testing.T) {
	c, err := New(&mockSSM{out: paramOutput("nilai")})
	require.NoError(t, err)

	v, ok, err := c.GetOptional(context.Background(), "/statchat/portal_url")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "nilai", v)
}

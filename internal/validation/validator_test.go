package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/capstonehub/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rejectRequest struct {
	Reason string `json:"reason" validate:"notblank,max=20"`
}

func TestValidateStruct_ProjectInput(t *testing.T) {
	valid := models.ProjectInput{
		Title:          "Fleet telemetry dashboard",
		Description:    "Collect and visualise vehicle telemetry in real time.",
		RequiredSkills: []string{"go", "react"},
		TeamSize:       4,
	}
	assert.NoError(t, ValidateStruct(&valid))

	invalid := valid
	invalid.Title = "abc"
	invalid.TeamSize = 50
	invalid.RequiredSkills = []string{"go", ""}

	err := ValidateStruct(&invalid)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrInvalidInput))

	var vErr *RequestValidationError
	require.ErrorAs(t, err, &vErr)
	details := vErr.Details().(map[string]string)
	assert.Equal(t, "title must be at least 5 characters", details["title"])
	assert.Equal(t, "teamSize must be at most 20", details["teamSize"])
	assert.Contains(t, details, "requiredSkills[1]")
}

func TestValidateStruct_NotBlank(t *testing.T) {
	err := ValidateStruct(&rejectRequest{Reason: "   "})
	require.Error(t, err)
	assert.Equal(t, "reason must not be blank", err.Error())

	err = ValidateStruct(&rejectRequest{Reason: strings.Repeat("x", 21)})
	require.Error(t, err)
	assert.Equal(t, "reason must be at most 20 characters", err.Error())

	assert.NoError(t, ValidateStruct(&rejectRequest{Reason: "out of scope"}))
}

func TestValidateStruct_LoginRole(t *testing.T) {
	err := ValidateStruct(&models.LoginRequest{Email: "a@b.test", Password: "x", Role: "root"})
	require.Error(t, err)
	assert.Equal(t, "role must be one of: admin client student", err.Error())
}

func TestValidateVar(t *testing.T) {
	assert.NoError(t, ValidateVar("email", "ana@uni.test", "required,email"))

	err := ValidateVar("email", "nope", "required,email")
	require.Error(t, err)
	assert.Equal(t, "email must be a valid email address", err.Error())
}

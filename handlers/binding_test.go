package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifetrack/lifetrack-api/models"
)

func bindJSON(t *testing.T, body string, obj interface{}) error {
	t.Helper()
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("POST", "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c.ShouldBindJSON(obj)
}

func TestCreateExpenseBinding(t *testing.T) {
	var req models.CreateExpenseRequest
	err := bindJSON(t, `{"amount": 12.34, "category": "food", "expenseType": "essential"}`, &req)
	require.NoError(t, err)
	require.NotNil(t, req.Amount)
	assert.Equal(t, models.Amount(1234), *req.Amount)

	// Unknown category is rejected by the enum tag.
	err = bindJSON(t, `{"amount": 5, "category": "crypto"}`, &models.CreateExpenseRequest{})
	assert.Error(t, err)

	// Amount is mandatory.
	err = bindJSON(t, `{"category": "food"}`, &models.CreateExpenseRequest{})
	assert.Error(t, err)
}

func TestCreateExpenseBindingAcceptsZeroAmount(t *testing.T) {
	var req models.CreateExpenseRequest
	err := bindJSON(t, `{"amount": 0, "category": "food"}`, &req)
	require.NoError(t, err)
	require.NotNil(t, req.Amount)
	assert.Equal(t, models.Amount(0), *req.Amount)
}

func TestCreateIncomeBinding(t *testing.T) {
	var req models.CreateIncomeRequest
	err := bindJSON(t, `{"amount": 2500, "source": "salary"}`, &req)
	require.NoError(t, err)
	require.NotNil(t, req.Amount)
	assert.Equal(t, models.Amount(250000), *req.Amount)

	err = bindJSON(t, `{"amount": 10, "source": "lottery"}`, &models.CreateIncomeRequest{})
	assert.Error(t, err)

	var zero models.CreateIncomeRequest
	err = bindJSON(t, `{"amount": 0, "source": "gift"}`, &zero)
	require.NoError(t, err)
	require.NotNil(t, zero.Amount)
	assert.Equal(t, models.Amount(0), *zero.Amount)
}

func TestNormalizeExpenseType(t *testing.T) {
	assert.Equal(t, models.ExpenseTypeEssential, normalizeExpenseType(""))
	assert.Equal(t, models.ExpenseTypeNonEssential, normalizeExpenseType(models.ExpenseTypeNonEssential))
}

func TestCreateProjectBinding(t *testing.T) {
	err := bindJSON(t, `{"name": "Site relaunch", "status": "active", "priority": "high"}`, &models.CreateProjectRequest{})
	require.NoError(t, err)

	err = bindJSON(t, `{"name": "x", "status": "archived"}`, &models.CreateProjectRequest{})
	assert.Error(t, err)

	err = bindJSON(t, `{"description": "no name"}`, &models.CreateProjectRequest{})
	assert.Error(t, err)
}

func TestCreateTaskBinding(t *testing.T) {
	err := bindJSON(t, `{"title": "Write docs", "projectId": "p-1", "status": "todo"}`, &models.CreateTaskRequest{})
	require.NoError(t, err)

	// projectId is mandatory; status outside the enum is rejected.
	err = bindJSON(t, `{"title": "Write docs"}`, &models.CreateTaskRequest{})
	assert.Error(t, err)

	err = bindJSON(t, `{"title": "x", "projectId": "p-1", "status": "blocked"}`, &models.CreateTaskRequest{})
	assert.Error(t, err)
}

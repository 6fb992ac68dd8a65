package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/crime-dashboard-go/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func contextFor(rawQuery string) *gin.Context {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?"+rawQuery, nil)
	return c
}

func TestParseFilter(t *testing.T) {
	f, err := parseFilter(contextFor("year=2022,2023&year=2024&province=Kigali&crime=Theft,%20Fraud&crime="))
	require.NoError(t, err)
	assert.Equal(t, []int{2022, 2023, 2024}, f.Years)
	assert.Equal(t, []string{"Kigali"}, f.Provinces)
	assert.Equal(t, []string{"Theft", "Fraud"}, f.CrimeTypes)

	f, err = parseFilter(contextFor(""))
	require.NoError(t, err)
	assert.True(t, f.IsEmpty())

	_, err = parseFilter(contextFor("year=twenty"))
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestParseColumns(t *testing.T) {
	cols, err := parseColumns(contextFor("by=year,crime"), "by", models.ColumnProvince)
	require.NoError(t, err)
	assert.Equal(t, []models.Column{models.ColumnYear, models.ColumnCrimeDetail}, cols)

	cols, err = parseColumns(contextFor(""), "by", models.ColumnProvince)
	require.NoError(t, err)
	assert.Equal(t, []models.Column{models.ColumnProvince}, cols)

	_, err = parseColumn(contextFor("by=year&by=province"), "by", models.ColumnProvince)
	assert.ErrorIs(t, err, models.ErrInvalidColumn)
}

func TestParseInt(t *testing.T) {
	n, err := parseInt(contextFor("n=5"), "n", 10)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	n, err = parseInt(contextFor(""), "n", 10)
	require.NoError(t, err)
	assert.Equal(t, 10, n)

	_, err = parseInt(contextFor("n=five"), "n", 10)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

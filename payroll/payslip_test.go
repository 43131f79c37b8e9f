package payroll_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/hrms-engine/payroll"
)

func TestRenderPayslip_ProducesPDF(t *testing.T) {
	// GIVEN: A paid statement and employee info
	// WHEN: Rendering the payslip
	// THEN: The writer receives a non-empty PDF document

	s := johnJuly(payroll.StatusPaid)
	paidOn := time.Date(2025, time.July, 31, 18, 0, 0, 0, time.UTC)
	s.PaidOn = &paidOn
	s.GeneratedOn = time.Date(2025, time.July, 28, 12, 0, 0, 0, time.UTC)

	var buf bytes.Buffer
	err := payroll.RenderPayslip(&buf, s, payroll.PayslipInfo{
		EmployeeName: "John Doe",
		Department:   "Engineering",
		Designation:  "Senior Developer",
		Company:      "Warp HRMS",
	})
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")), "output must be a PDF")
	assert.Greater(t, buf.Len(), 500)
}

package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chaiyo-ai/chaiyo-engine/pkg/models"
)

func TestExtractYears(t *testing.T) {
	tests := []struct {
		name     string
		question string
		expected []string
	}{
		{
			name:     "gregorian year",
			question: "ยอดขายปี 2024",
			expected: []string{"2024"},
		},
		{
			name:     "buddhist era year converted",
			question: "ยอดขายปี พ.ศ. 2567",
			expected: []string{"2024"},
		},
		{
			name:     "mixed eras deduplicated",
			question: "เปรียบเทียบปี 2024 กับ พ.ศ. 2567",
			expected: []string{"2024"},
		},
		{
			name:     "two distinct years",
			question: "เปรียบเทียบยอดขายปี 2023 กับ 2024",
			expected: []string{"2023", "2024"},
		},
		{
			name:     "implausible number ignored",
			question: "รหัสสินค้า 9999",
			expected: nil,
		},
		{
			name:     "no year",
			question: "ยอดขายเดือนนี้",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractYears(tt.question))
		})
	}
}

func TestExtractMonths(t *testing.T) {
	tests := []struct {
		name     string
		question string
		expected []string
	}{
		{
			name:     "thai full month",
			question: "ยอดขายเดือนกุมภาพันธ์",
			expected: []string{"02"},
		},
		{
			name:     "thai abbreviation",
			question: "กำลังคนเดือน ธ.ค. 2567",
			expected: []string{"12"},
		},
		{
			name:     "english month",
			question: "sales for January 2024",
			expected: []string{"01"},
		},
		{
			name:     "no month",
			question: "ยอดขายปี 2024",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractMonths(tt.question))
		})
	}
}

func TestExtractMonths_OrderedByAppearance(t *testing.T) {
	tests := []struct {
		name     string
		question string
		expected []string
	}{
		{
			name:     "three months in calendar order",
			question: "เปรียบเทียบกำลังคนเดือนมกราคม กุมภาพันธ์ และมีนาคม",
			expected: []string{"01", "02", "03"},
		},
		{
			name:     "reverse calendar order kept",
			question: "เทียบเดือนธันวาคมกับเดือนมกราคม",
			expected: []string{"12", "01"},
		},
		{
			name:     "thai and english mixed",
			question: "ยอดขาย June กับเดือนมกราคม",
			expected: []string{"06", "01"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractMonths(tt.question))
		})
	}
}

func TestExtractProducts(t *testing.T) {
	tests := []struct {
		name     string
		question string
		expected []string
	}{
		{
			name:     "single quoted product",
			question: "ราคาอะไหล่ 'ผ้าเบรค' เท่าไหร่",
			expected: []string{"ผ้าเบรค"},
		},
		{
			name:     "double quoted product",
			question: `สต็อก "ไส้กรองอากาศ" เหลือเท่าไหร่`,
			expected: []string{"ไส้กรองอากาศ"},
		},
		{
			name:     "no quoted text",
			question: "ราคาอะไหล่ทั่วไป",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractProducts(tt.question))
		})
	}
}

func TestExtractCustomers(t *testing.T) {
	tests := []struct {
		name     string
		question string
		expected []string
	}{
		{
			name:     "thai name after customer word",
			question: "ประวัติลูกค้า สมชาย",
			expected: []string{"สมชาย"},
		},
		{
			name:     "english proper name",
			question: "ประวัติการซ่อมของ Somchai",
			expected: []string{"Somchai"},
		},
		{
			name:     "generic customer word filtered",
			question: "ลูกค้าทั้งหมดมีกี่ราย",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractCustomers(tt.question))
		})
	}
}

func TestExtractEntities_AbsentKeysOmitted(t *testing.T) {
	entities := ExtractEntities("ยอดขายปี 2024")

	assert.Equal(t, []string{"2024"}, entities[models.EntityYears])
	assert.NotContains(t, entities, models.EntityMonths)
	assert.NotContains(t, entities, models.EntityProducts)
	assert.NotContains(t, entities, models.EntityCustomers)
}

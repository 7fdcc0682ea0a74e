package extensions

import (
	"testing"
)

func TestFilterSingleFindsExactlyOne(t *testing.T) {
	keys := []string{"1. Information", "2. Symbol", "3. Last Refreshed"}

	res, err := FilterSingle(keys, func(s string) bool { return s == "2. Symbol" })
	if err != nil {
		t.Fatalf("error filtering single: %s", err)
	}
	AssertAreEqual(t, "symbol key", "2. Symbol", res)

	if _, err := FilterSingle(keys, func(s string) bool { return len(s) > 0 }); err == nil {
		t.Fatalf("expected an error when more than one element matches")
	}
}

func TestFilterFirstReportsMissing(t *testing.T) {
	_, found := FilterFirst([]int{1, 3, 5}, func(i int) bool { return i%2 == 0 })
	AssertAreEqual(t, "found", false, found)

	v, found := FilterFirst([]int{1, 4, 6}, func(i int) bool { return i%2 == 0 })
	AssertAreEqual(t, "found", true, found)
	AssertAreEqual(t, "value", 4, v)
}

func TestIndexOfFoldIgnoresCaseAndSpace(t *testing.T) {
	headers := []string{" date ", "WPI", "Stock"}
	AssertAreEqual(t, "date", 0, IndexOfFold(headers, "Date"))
	AssertAreEqual(t, "stock", 2, IndexOfFold(headers, "stock"))
	AssertAreEqual(t, "missing", -1, IndexOfFold(headers, "Symbol"))
}

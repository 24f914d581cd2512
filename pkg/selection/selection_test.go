package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain text untouched", "  Price: $12.50  ", "  Price: $12.50  "},
		{"less-than is not a tag", "5 < 6 and $3", "5 < 6 and $3"},
		{"inline markup", `<span class="price">£<b>1,299</b>.00</span>`, "£1,299.00"},
		{"line break", "Total<br>€45", "Total €45"},
		{"block boundaries", "<div>USD</div><div>100</div>", "USD 100"},
		{"table cells", "<table><tr><td>Price</td><td>¥500</td></tr></table>", "Price ¥500"},
		{"scripts dropped", `<p>€9</p><script>var x = "$1000";</script>`, "€9"},
		{"entities decoded", "<p>&pound;20&nbsp;GBP</p>", "£20 GBP"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Text(tt.raw))
		})
	}
}

func TestIsHTML(t *testing.T) {
	assert.True(t, IsHTML("<b>x</b>"))
	assert.True(t, IsHTML("a<br/>b"))
	assert.False(t, IsHTML("a < b > c"))
	assert.False(t, IsHTML("$100"))
}

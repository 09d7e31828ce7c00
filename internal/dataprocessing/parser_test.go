package dataprocessing

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bhavcopyFixture = `Date,Open Price,High Price,Low Price,Close Price,Total Traded Quantity,Deliverable Qty
02-Jan-2024,100.50,104.00,99.25,103.10,"1,50,000","90,000"
03-Jan-2024,103.00,106.50,102.00,105.75,"2,10,500","1,20,000"
01-Jan-2024,99.00,101.00,98.50,100.40,"1,00,000","55,000"
`

func TestParseBhavcopyCSV(t *testing.T) {
	t.Run("parses and sorts ascending by date", func(t *testing.T) {
		days, err := ParseBhavcopyCSV(strings.NewReader(bhavcopyFixture), nil)
		require.NoError(t, err)
		require.Len(t, days, 3)

		assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), days[0].Date)
		assert.Equal(t, time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), days[2].Date)
		assert.InDelta(t, 103.10, days[1].Close, 1e-9)
		assert.Equal(t, int64(150000), days[1].Volume)
		assert.Equal(t, int64(90000), days[1].DeliveryQty)
	})

	t.Run("skips malformed rows", func(t *testing.T) {
		fixture := `Date,Open Price,High Price,Low Price,Close Price,Total Traded Quantity,Deliverable Qty
02-Jan-2024,100.50,104.00,99.25,103.10,150000,90000
bad-date,1,2,3,4,5,6
03-Jan-2024,103.00,106.50,102.00,not-a-number,210500,120000
`
		days, err := ParseBhavcopyCSV(strings.NewReader(fixture), nil)
		require.NoError(t, err)
		assert.Len(t, days, 1)
	})

	t.Run("all rows malformed is an error", func(t *testing.T) {
		fixture := `Date,Open Price,High Price,Low Price,Close Price,Total Traded Quantity,Deliverable Qty
x,y,z,w,v,u,t
`
		_, err := ParseBhavcopyCSV(strings.NewReader(fixture), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no usable trading rows")
	})

	t.Run("missing column is an error", func(t *testing.T) {
		fixture := "Date,Open Price,High Price,Low Price,Close Price,Total Traded Quantity\n02-Jan-2024,1,2,3,4,5\n"
		_, err := ParseBhavcopyCSV(strings.NewReader(fixture), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Deliverable Qty")
	})

	t.Run("empty file is an error", func(t *testing.T) {
		_, err := ParseBhavcopyCSV(strings.NewReader(""), nil)
		require.Error(t, err)
	})
}

func TestParseIndexCSV(t *testing.T) {
	t.Run("optional columns present", func(t *testing.T) {
		fixture := `Date,Nifty Open,Nifty High,Nifty Low,Nifty Close,Volume,VIX,Advance Decline
01-Jan-2024,18000,18150,17950,18100,1000000,14.5,1.8
02-Jan-2024,18100,18220,18050,18200,1100000,,
`
		days, err := ParseIndexCSV(strings.NewReader(fixture), nil)
		require.NoError(t, err)
		require.Len(t, days, 2)

		require.NotNil(t, days[0].VIX)
		assert.InDelta(t, 14.5, *days[0].VIX, 1e-9)
		require.NotNil(t, days[0].AdvanceDecline)
		assert.InDelta(t, 1.8, *days[0].AdvanceDecline, 1e-9)

		// Blank optional cells are absent, not zero.
		assert.Nil(t, days[1].VIX)
		assert.Nil(t, days[1].AdvanceDecline)
	})

	t.Run("optional columns missing entirely", func(t *testing.T) {
		fixture := `Date,Nifty Open,Nifty High,Nifty Low,Nifty Close,Volume
01-Jan-2024,18000,18150,17950,18100,1000000
`
		days, err := ParseIndexCSV(strings.NewReader(fixture), nil)
		require.NoError(t, err)
		require.Len(t, days, 1)
		assert.Nil(t, days[0].VIX)
		assert.InDelta(t, 18100, days[0].Close, 1e-9)
	})
}

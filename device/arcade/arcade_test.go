package arcade_test

import (
	"testing"

	"github.com/b4n4n377/Whirlwind/device"
	"github.com/b4n4n377/Whirlwind/device/arcade"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputReports(t *testing.T) {
	type testCase struct {
		name           string
		inputState     arcade.InputState
		expectedReport []byte
	}

	cases := []testCase{
		{
			name:           "no buttons",
			inputState:     arcade.InputState{},
			expectedReport: []byte{0x00, 0x00, 0x00, 0x00},
		},
		{
			name:           "all buttons",
			inputState:     arcade.InputState{Buttons: 0xFFFFFFFF},
			expectedReport: []byte{0xFF, 0xFF, 0xFF, 0xFF},
		},
		{
			name:           "button 1 is bit 0 of byte 0",
			inputState:     arcade.InputState{Buttons: 0x00000001},
			expectedReport: []byte{0x01, 0x00, 0x00, 0x00},
		},
		{
			name:           "button 32 is bit 7 of byte 3",
			inputState:     arcade.InputState{Buttons: 0x80000000},
			expectedReport: []byte{0x00, 0x00, 0x00, 0x80},
		},
		{
			name:           "buttons 1, 5 and 32",
			inputState:     arcade.InputState{Buttons: 0x80000011},
			expectedReport: []byte{0x11, 0x00, 0x00, 0x80},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expectedReport, tc.inputState.BuildReport())
			// Encoding is stateless; a second pass yields the same bytes.
			assert.Equal(t, tc.expectedReport, tc.inputState.BuildReport())

			var decoded arcade.InputState
			require.NoError(t, decoded.UnmarshalBinary(tc.expectedReport))
			assert.Equal(t, tc.inputState, decoded)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	masks := []uint32{0, 1, 0x55555555, 0xAAAAAAAA, 0xDEADBEEF, 0xFFFFFFFF}
	for _, m := range masks {
		st := arcade.InputState{Buttons: m}
		b, err := st.MarshalBinary()
		require.NoError(t, err)
		require.Len(t, b, arcade.ReportLength)

		var out arcade.InputState
		require.NoError(t, out.UnmarshalBinary(b))
		assert.Equal(t, m, out.Buttons)
	}
}

func TestUnmarshalShortBuffer(t *testing.T) {
	var st arcade.InputState
	assert.Error(t, st.UnmarshalBinary([]byte{0x01, 0x02, 0x03}))
}

func TestButtonHelpers(t *testing.T) {
	var st arcade.InputState

	st.Press(1)
	st.Press(5)
	st.Press(32)
	assert.Equal(t, uint32(0x80000011), st.Buttons)
	assert.Equal(t, []arcade.Button{1, 5, 32}, st.Pressed())
	assert.True(t, st.IsPressed(5))

	st.Release(5)
	assert.False(t, st.IsPressed(5))
	assert.Equal(t, uint32(0x80000001), st.Buttons)

	// Out-of-range usage IDs are ignored.
	st.Press(0)
	st.Press(33)
	assert.Equal(t, uint32(0x80000001), st.Buttons)
	assert.False(t, st.IsPressed(0))
	assert.False(t, st.IsPressed(33))
}

func TestDeviceStreamsAreIndependent(t *testing.T) {
	d, err := arcade.New(nil)
	require.NoError(t, err)

	require.NoError(t, d.UpdateInputState(arcade.GamepadA, arcade.InputState{Buttons: 0x11}))
	require.NoError(t, d.UpdateInputState(arcade.GamepadB, arcade.InputState{Buttons: 0x80000000}))

	a, err := d.Report(arcade.GamepadA)
	require.NoError(t, err)
	b, err := d.Report(arcade.GamepadB)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x11, 0x00, 0x00, 0x00}, a)
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x80}, b)

	// Framed form carries the stream's report ID first.
	fb, err := d.FramedReport(arcade.GamepadB)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x02, 0x00, 0x00, 0x00, 0x80}, fb)

	assert.Error(t, d.UpdateInputState(3, arcade.InputState{}))
	_, err = d.Report(0)
	assert.Error(t, err)
}

func TestCreateOptionsOverrideIdentity(t *testing.T) {
	vid, pid := uint16(0x1209), uint16(0x0001)
	d, err := arcade.New(&device.CreateOptions{IdVendor: &vid, IdProduct: &pid})
	require.NoError(t, err)
	assert.Equal(t, vid, d.GetDescriptor().Device.IDVendor)
	assert.Equal(t, pid, d.GetDescriptor().Device.IDProduct)

	// Defaults stay put when no overrides are given.
	d2, err := arcade.New(nil)
	require.NoError(t, err)
	assert.Equal(t, arcade.DefaultVendorID, d2.GetDescriptor().Device.IDVendor)
	assert.Equal(t, arcade.DefaultProductID, d2.GetDescriptor().Device.IDProduct)
}

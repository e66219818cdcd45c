//go:build windows

package winapi

import (
	"fmt"
	"unsafe"
)

// ApplyPosition stages a position-only display-mode change for one device.
// The change is written to the registry but deferred (CDS_NORESET); nothing
// moves until CommitDisplayChanges flushes all staged changes atomically.
// When primary is set the device is additionally marked as the new primary
// display.
func ApplyPosition(device string, x, y int32, primary bool) error {
	name := utf16FromString(device)

	var dm devMode
	dm.Size = uint16(unsafe.Sizeof(dm))
	ret, _, err := procEnumDisplaySettingsW.Call(
		uintptr(unsafe.Pointer(&name[0])),
		enumCurrentSettings,
		uintptr(unsafe.Pointer(&dm)),
	)
	if ret == 0 {
		return fmt.Errorf("EnumDisplaySettings %s: %w", device, err)
	}

	dm.Fields = dmPosition
	dm.X = x
	dm.Y = y

	flags := uintptr(cdsUpdateRegistry | cdsNoReset | cdsGlobal)
	if primary {
		flags |= cdsSetPrimary
	}
	code, _, _ := procChangeDisplaySettingsExW.Call(
		uintptr(unsafe.Pointer(&name[0])),
		uintptr(unsafe.Pointer(&dm)),
		0,
		flags,
		0,
	)
	if int32(code) != dispChangeSuccessful {
		return fmt.Errorf("ChangeDisplaySettingsEx %s: code %d", device, int32(code))
	}
	return nil
}

// CommitDisplayChanges applies every staged position change in one pass.
func CommitDisplayChanges() error {
	code, _, _ := procChangeDisplaySettingsExW.Call(0, 0, 0, 0, 0)
	if int32(code) != dispChangeSuccessful {
		return fmt.Errorf("ChangeDisplaySettingsEx commit: code %d", int32(code))
	}
	return nil
}

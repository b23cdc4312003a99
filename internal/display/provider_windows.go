//go:build windows

package display

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	modUser32                    = windows.NewLazySystemDLL("user32.dll")
	procEnumDisplaySettingsW     = modUser32.NewProc("EnumDisplaySettingsW")
	procChangeDisplaySettingsExW = modUser32.NewProc("ChangeDisplaySettingsExW")
	procEnumDisplayDevicesW      = modUser32.NewProc("EnumDisplayDevicesW")
)

const (
	enumCurrentSettings = 0xFFFFFFFF

	cdsUpdateRegistry = 0x00000001
	cdsTest           = 0x00000002

	dispChangeSuccessful = 0

	dmDisplayOrientation = 0x00000080
	dmBitsPerPel         = 0x00040000
	dmPelsWidth          = 0x00080000
	dmPelsHeight         = 0x00100000
	dmDisplayFrequency   = 0x00400000

	displayDeviceAttached = 0x00000001
	displayDevicePrimary  = 0x00000004
)

// devmodeW is the display half of the Windows DEVMODEW structure. The union
// fields are laid out for display devices; Size must equal the struct's exact
// byte size or the OS rejects the call.
type devmodeW struct {
	DeviceName       [32]uint16
	SpecVersion      uint16
	DriverVersion    uint16
	Size             uint16
	DriverExtra      uint16
	Fields           uint32
	PositionX        int32
	PositionY        int32
	Orientation      uint32
	FixedOutput      uint32
	Color            int16
	Duplex           int16
	YResolution      int16
	TTOption         int16
	Collate          int16
	FormName         [32]uint16
	LogPixels        uint16
	BitsPerPel       uint32
	PelsWidth        uint32
	PelsHeight       uint32
	DisplayFlags     uint32
	DisplayFrequency uint32
	ICMMethod        uint32
	ICMIntent        uint32
	MediaType        uint32
	DitherType       uint32
	Reserved1        uint32
	Reserved2        uint32
	PanningWidth     uint32
	PanningHeight    uint32
}

type displayDeviceW struct {
	Cb           uint32
	DeviceName   [32]uint16
	DeviceString [128]uint16
	StateFlags   uint32
	DeviceID     [128]uint16
	DeviceKey    [128]uint16
}

type windowsProvider struct{}

// NewProvider returns the user32-backed display configuration provider.
func NewProvider() Provider {
	return &windowsProvider{}
}

func deviceNamePtr(target string) (*uint16, error) {
	if target == "" {
		return nil, nil // primary display
	}
	return windows.UTF16PtrFromString(target)
}

func (p *windowsProvider) Query(target string) (Mode, error) {
	name, err := deviceNamePtr(target)
	if err != nil {
		return Mode{}, fmt.Errorf("%w: bad device name %q", ErrDisplayNotFound, target)
	}

	var dm devmodeW
	dm.Size = uint16(unsafe.Sizeof(dm))

	ret, _, _ := procEnumDisplaySettingsW.Call(
		uintptr(unsafe.Pointer(name)),
		enumCurrentSettings,
		uintptr(unsafe.Pointer(&dm)),
	)
	if ret == 0 {
		return Mode{}, fmt.Errorf("%w: EnumDisplaySettingsW returned FALSE for %q", ErrQueryFailed, target)
	}

	return Mode{
		Orientation: Orientation(dm.Orientation),
		Width:       int(dm.PelsWidth),
		Height:      int(dm.PelsHeight),
		Device:      windows.UTF16ToString(dm.DeviceName[:]),
		RefreshHz:   int(dm.DisplayFrequency),
	}, nil
}

func (p *windowsProvider) Apply(target string, mode Mode, flag ApplyFlag) error {
	name, err := deviceNamePtr(target)
	if err != nil {
		return fmt.Errorf("%w: bad device name %q", ErrDisplayNotFound, target)
	}

	// Re-read the full native structure so driver fields we never model are
	// carried through unchanged, then overlay the modeled fields.
	var dm devmodeW
	dm.Size = uint16(unsafe.Sizeof(dm))
	ret, _, _ := procEnumDisplaySettingsW.Call(
		uintptr(unsafe.Pointer(name)),
		enumCurrentSettings,
		uintptr(unsafe.Pointer(&dm)),
	)
	if ret == 0 {
		return fmt.Errorf("%w: EnumDisplaySettingsW returned FALSE for %q", ErrQueryFailed, target)
	}

	dm.Orientation = uint32(mode.Orientation)
	dm.PelsWidth = uint32(mode.Width)
	dm.PelsHeight = uint32(mode.Height)
	dm.Fields |= dmDisplayOrientation | dmPelsWidth | dmPelsHeight

	flags := uintptr(cdsTest)
	if flag == Persist {
		flags = cdsUpdateRegistry
	}

	status, _, _ := procChangeDisplaySettingsExW.Call(
		uintptr(unsafe.Pointer(name)),
		uintptr(unsafe.Pointer(&dm)),
		0, // reserved hwnd
		flags,
		0, // no video parameters
	)
	if int32(status) != dispChangeSuccessful {
		if flag == Validate {
			return fmt.Errorf("%w: ChangeDisplaySettingsExW(CDS_TEST) = %d", ErrValidateRejected, int32(status))
		}
		return fmt.Errorf("%w: ChangeDisplaySettingsExW = %d", ErrApplyFailed, int32(status))
	}
	return nil
}

func (p *windowsProvider) Displays() ([]DisplayInfo, error) {
	var displays []DisplayInfo

	for i := uint32(0); ; i++ {
		var dd displayDeviceW
		dd.Cb = uint32(unsafe.Sizeof(dd))

		ret, _, _ := procEnumDisplayDevicesW.Call(
			0, // all devices
			uintptr(i),
			uintptr(unsafe.Pointer(&dd)),
			0,
		)
		if ret == 0 {
			break
		}

		if dd.StateFlags&displayDeviceAttached == 0 {
			continue
		}

		name := windows.UTF16ToString(dd.DeviceName[:])
		info := DisplayInfo{
			Name:        name,
			Description: windows.UTF16ToString(dd.DeviceString[:]),
			Primary:     dd.StateFlags&displayDevicePrimary != 0,
		}

		if mode, err := p.Query(name); err == nil {
			info.Width = mode.Width
			info.Height = mode.Height
		}

		displays = append(displays, info)
	}

	if len(displays) == 0 {
		return nil, fmt.Errorf("%w: no attached displays", ErrDisplayNotFound)
	}
	return displays, nil
}

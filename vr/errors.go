// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vr

import "strconv"

// InitError is the error code reported by session initialization and
// interface lookup.
type InitError int32

const (
	InitErrorNone                       InitError = 0
	InitErrorUnknown                    InitError = 1
	InitErrorInstallationNotFound       InitError = 100
	InitErrorInstallationCorrupt        InitError = 101
	InitErrorClientDLLNotFound          InitError = 102
	InitErrorFileNotFound               InitError = 103
	InitErrorFactoryNotFound            InitError = 104
	InitErrorInterfaceNotFound          InitError = 105
	InitErrorInvalidInterface           InitError = 106
	InitErrorUserConfigDirectoryInvalid InitError = 107
	InitErrorHmdNotFound                InitError = 108
	InitErrorNotInitialized             InitError = 109
	InitErrorPathRegistryNotFound       InitError = 110
	InitErrorShuttingDown               InitError = 119
	InitErrorNoServerForBackgroundApp   InitError = 121
)

type initErrorInfo struct {
	symbol      string
	description string
}

var initErrorInfos = map[InitError]initErrorInfo{
	InitErrorNone:                       {"VRInitError_None", "No Error (0)"},
	InitErrorUnknown:                    {"VRInitError_Unknown", "Unknown Error (1)"},
	InitErrorInstallationNotFound:       {"VRInitError_Init_InstallationNotFound", "Installation Not Found (100)"},
	InitErrorInstallationCorrupt:        {"VRInitError_Init_InstallationCorrupt", "Installation Corrupt (101)"},
	InitErrorClientDLLNotFound:          {"VRInitError_Init_VRClientDLLNotFound", "vrclient Shared Lib Not Found (102)"},
	InitErrorFileNotFound:               {"VRInitError_Init_FileNotFound", "File Not Found (103)"},
	InitErrorFactoryNotFound:            {"VRInitError_Init_FactoryNotFound", "Factory Function Not Found (104)"},
	InitErrorInterfaceNotFound:          {"VRInitError_Init_InterfaceNotFound", "Interface Not Found (105)"},
	InitErrorInvalidInterface:           {"VRInitError_Init_InvalidInterface", "Invalid Interface (106)"},
	InitErrorUserConfigDirectoryInvalid: {"VRInitError_Init_UserConfigDirectoryInvalid", "User Config Directory Invalid (107)"},
	InitErrorHmdNotFound:                {"VRInitError_Init_HmdNotFound", "Hmd Not Found (108)"},
	InitErrorNotInitialized:             {"VRInitError_Init_NotInitialized", "Not Initialized (109)"},
	InitErrorPathRegistryNotFound:       {"VRInitError_Init_PathRegistryNotFound", "Installation path could not be located (110)"},
	InitErrorShuttingDown:               {"VRInitError_Init_ShuttingDown", "Shutting Down (119)"},
	InitErrorNoServerForBackgroundApp:   {"VRInitError_Init_NoServerForBackgroundApp", "Not starting vrserver for background app (121)"},
}

// Symbol returns the enum symbol, or "" for unknown codes.
func (e InitError) Symbol() string { return initErrorInfos[e].symbol }

// Description returns the English description, or "" for unknown codes.
func (e InitError) Description() string { return initErrorInfos[e].description }

// Name combines symbol and description the way runtime diagnostics
// usually print them.
func (e InitError) Name() string {
	info, ok := initErrorInfos[e]
	switch {
	case !ok:
		return "InitError(" + strconv.Itoa(int(e)) + ")"
	case info.description == "":
		return info.symbol
	default:
		return info.symbol + ": " + info.description
	}
}

func (e InitError) Error() string { return e.Name() }

// Code returns the numeric code.
func (e InitError) Code() int32 { return int32(e) }

// OverlayError is the error code reported by Overlay methods.
type OverlayError int32

const (
	OverlayErrorNone                 OverlayError = 0
	OverlayErrorUnknownOverlay       OverlayError = 10
	OverlayErrorInvalidHandle        OverlayError = 11
	OverlayErrorPermissionDenied     OverlayError = 12
	OverlayErrorOverlayLimitExceeded OverlayError = 13
	OverlayErrorWrongVisibilityType  OverlayError = 14
	OverlayErrorKeyTooLong           OverlayError = 15
	OverlayErrorNameTooLong          OverlayError = 16
	OverlayErrorKeyInUse             OverlayError = 17
	OverlayErrorWrongTransformType   OverlayError = 18
	OverlayErrorInvalidTrackedDevice OverlayError = 19
	OverlayErrorInvalidParameter     OverlayError = 20
	OverlayErrorArrayTooSmall        OverlayError = 22
	OverlayErrorRequestFailed        OverlayError = 23
	OverlayErrorInvalidTexture       OverlayError = 24
	OverlayErrorUnableToLoadFile     OverlayError = 25
	OverlayErrorTimedOut             OverlayError = 34
)

var overlayErrorNames = map[OverlayError]string{
	OverlayErrorNone:                 "VROverlayError_None",
	OverlayErrorUnknownOverlay:       "VROverlayError_UnknownOverlay",
	OverlayErrorInvalidHandle:        "VROverlayError_InvalidHandle",
	OverlayErrorPermissionDenied:     "VROverlayError_PermissionDenied",
	OverlayErrorOverlayLimitExceeded: "VROverlayError_OverlayLimitExceeded",
	OverlayErrorWrongVisibilityType:  "VROverlayError_WrongVisibilityType",
	OverlayErrorKeyTooLong:           "VROverlayError_KeyTooLong",
	OverlayErrorNameTooLong:          "VROverlayError_NameTooLong",
	OverlayErrorKeyInUse:             "VROverlayError_KeyInUse",
	OverlayErrorWrongTransformType:   "VROverlayError_WrongTransformType",
	OverlayErrorInvalidTrackedDevice: "VROverlayError_InvalidTrackedDevice",
	OverlayErrorInvalidParameter:     "VROverlayError_InvalidParameter",
	OverlayErrorArrayTooSmall:        "VROverlayError_ArrayTooSmall",
	OverlayErrorRequestFailed:        "VROverlayError_RequestFailed",
	OverlayErrorInvalidTexture:       "VROverlayError_InvalidTexture",
	OverlayErrorUnableToLoadFile:     "VROverlayError_UnableToLoadFile",
	OverlayErrorTimedOut:             "VROverlayError_TimedOut",
}

// Name returns the enum name of the code.
func (e OverlayError) Name() string {
	if n, ok := overlayErrorNames[e]; ok {
		return n
	}
	return "OverlayError(" + strconv.Itoa(int(e)) + ")"
}

func (e OverlayError) Error() string { return e.Name() }

// Code returns the numeric code.
func (e OverlayError) Code() int32 { return int32(e) }

// InputError is the error code reported by Input methods.
type InputError int32

const (
	InputErrorNone                     InputError = 0
	InputErrorNameNotFound             InputError = 1
	InputErrorWrongType                InputError = 2
	InputErrorInvalidHandle            InputError = 3
	InputErrorInvalidParam             InputError = 4
	InputErrorNoSteam                  InputError = 5
	InputErrorMaxCapacityReached       InputError = 6
	InputErrorIPCError                 InputError = 7
	InputErrorNoActiveActionSet        InputError = 8
	InputErrorInvalidDevice            InputError = 9
	InputErrorNoData                   InputError = 13
	InputErrorBufferTooSmall           InputError = 14
	InputErrorMismatchedActionManifest InputError = 15
	InputErrorPermissionDenied         InputError = 19
)

var inputErrorNames = map[InputError]string{
	InputErrorNone:                     "VRInputError_None",
	InputErrorNameNotFound:             "VRInputError_NameNotFound",
	InputErrorWrongType:                "VRInputError_WrongType",
	InputErrorInvalidHandle:            "VRInputError_InvalidHandle",
	InputErrorInvalidParam:             "VRInputError_InvalidParam",
	InputErrorNoSteam:                  "VRInputError_NoSteam",
	InputErrorMaxCapacityReached:       "VRInputError_MaxCapacityReached",
	InputErrorIPCError:                 "VRInputError_IPCError",
	InputErrorNoActiveActionSet:        "VRInputError_NoActiveActionSet",
	InputErrorInvalidDevice:            "VRInputError_InvalidDevice",
	InputErrorNoData:                   "VRInputError_NoData",
	InputErrorBufferTooSmall:           "VRInputError_BufferTooSmall",
	InputErrorMismatchedActionManifest: "VRInputError_MismatchedActionManifest",
	InputErrorPermissionDenied:         "VRInputError_PermissionDenied",
}

// Name returns the enum name of the code.
func (e InputError) Name() string {
	if n, ok := inputErrorNames[e]; ok {
		return n
	}
	return "InputError(" + strconv.Itoa(int(e)) + ")"
}

func (e InputError) Error() string { return e.Name() }

// Code returns the numeric code.
func (e InputError) Code() int32 { return int32(e) }

// Coded is implemented by all error codes in this package.
type Coded interface {
	error
	Name() string
	Code() int32
}

var (
	_ Coded = InitError(0)
	_ Coded = OverlayError(0)
	_ Coded = InputError(0)
)

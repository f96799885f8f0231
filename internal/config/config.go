package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName     = "Go Celebrate"
	AppID       = "com.github.tartampluch.go-celebrate"
	LogFileName = "app.log"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	// Used for logs and exported calendar files.
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	// Used for creating secure cache directories.
	DirPermUserRWX fs.FileMode = 0700
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagVersion   = "version"
	FlagDebug     = "debug"
	FlagTarget    = "target"
	FlagName      = "name"
	FlagVCard     = "vcard"
	FlagAssets    = "assets"
	FlagExportICS = "export-ics"
	FlagMobile    = "mobile"
	FlagLang      = "lang"

	FlagDescVersion   = "Show application version and exit"
	FlagDescDebug     = "Enable debug logging to stdout"
	FlagDescTarget    = "Celebration moment (RFC 3339 or 2006-01-02T15:04:05 in local time)"
	FlagDescName      = "Name of the person being celebrated"
	FlagDescVCard     = "Read name and birthday from the first card with a BDAY in this .vcf file"
	FlagDescAssets    = "Directory holding images/, audio/ and an optional memories.json"
	FlagDescExportICS = "Write the celebration as an iCalendar event to this file and exit"
	FlagDescMobile    = "Require a tap before party audio starts, as on mobile devices"
	FlagDescLang      = "Interface language (en, fr)"

	MsgVersionOutput = "%s version %s (%s/%s)\n"
)

// -----------------------------------------------------------------------------
// UI Constants & Preferences
// -----------------------------------------------------------------------------

const (
	WindowWidth  = 900
	WindowHeight = 720

	// Preference Keys
	PrefTarget    = "target"
	PrefName      = "name"
	PrefAssetsDir = "assets_dir"
	PrefLanguage  = "language"
	PrefVCard     = "vcard_path"
	PrefLastRun   = "last_run_version"

	// Layout
	GalleryColumns     = 2
	GalleryImageHeight = 224
	GalleryImageWidth  = 320
	CountdownTextSize  = 36
	UnitTextSize       = 14
	HeadingTextSize    = 28
	PartyTextSize      = 30
	ConfettiPieceSize  = 8
	BalloonSize        = 36
	OverlayAlpha       = 160
)

// SupportedLanguages defines the list of available UI languages (ISO 639-1).
var SupportedLanguages = []string{"en", "fr"}

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyWinTitle       = "win_title"
	TKeyUnitDays       = "unit_days"
	TKeyUnitHours      = "unit_hours"
	TKeyUnitMinutes    = "unit_minutes"
	TKeyUnitSeconds    = "unit_seconds"
	TKeyHappyBirthday  = "happy_birthday" // Requires Name
	TKeyBtnGift        = "btn_gift"
	TKeyMemoriesTitle  = "memories_title"
	TKeyBtnParty       = "btn_party"
	TKeyPartyTitle     = "party_title"
	TKeyBtnStartParty  = "btn_start_party"
	TKeyImageAlt       = "image_alt" // Requires Index
	TKeyNoMemories     = "no_memories"
	TKeyCountdownTitle = "countdown_title"
	TKeyEventSummary   = "event_summary" // Requires Name
)

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	DefaultName      = "Nirbhay"
	DefaultTarget    = "2025-05-04T21:36:00"
	DefaultAssetsDir = "assets"
	DefaultLanguage  = "en"
	DefaultLeapYear  = 2000 // Leap year fallback for dates like --02-29

	// DefaultTimeOfDay is added to a vCard birthday to get the celebration moment.
	DefaultTimeOfDay = 0 * time.Hour

	MemoriesManifest = "memories.json"
	CelebrationTrack = "audio/happy-birthday.mp3"
	PartyTrack       = "audio/party-time.mp3"

	UIDSalt = "go-celebrate-v1-" // Salt for deterministic UID generation
)

// -----------------------------------------------------------------------------
// Stage Timing
// -----------------------------------------------------------------------------

const (
	// CountdownInterval is the countdown polling cadence.
	CountdownInterval = 1 * time.Second

	// ProceedWindow elapses 2 seconds before ConfettiWindow, so the party
	// control is visible while confetti is still falling.
	ProceedWindow  = 40 * time.Second
	ConfettiWindow = 42 * time.Second

	GalleryStagger  = 10 * time.Second
	GalleryEntrance = 10 * time.Second

	// FrameLoopDuration is the length of one cycle of the per-frame loops.
	// Only the tick rate matters; the fraction is ignored.
	FrameLoopDuration = 1 * time.Second

	ConfettiPiecesGift  = 300
	ConfettiPiecesParty = 500
	ConfettiMinSpeed    = 80.0  // px/s
	ConfettiMaxSpeed    = 220.0 // px/s
	ConfettiDrift       = 24.0  // px
	ConfettiSwayRate    = 3.0   // rad/s
	ConfettiMaxStep     = 100 * time.Millisecond

	// The headline sways by SwayDegrees; Fyne text cannot rotate, so the
	// angle is rendered as a horizontal offset.
	SwayPeriod          = 4 * time.Second
	SwayDegrees         = 5.0
	SwayPixelsPerDegree = 4.0

	BalloonCount   = 7
	BalloonRise    = 8 * time.Second
	BalloonStagger = 1500 * time.Millisecond
	GradientPeriod = 20 * time.Second
	HeadlineFadeIn = 500 * time.Millisecond
)

// -----------------------------------------------------------------------------
// Audio
// -----------------------------------------------------------------------------

const (
	SampleRate      = 48000
	SpeakerBuffer   = 100 * time.Millisecond
	ResampleQuality = 4
	MelodyBPM       = 100

	FFTSize             = 256
	AnalyserSmoothing   = 0.8
	AnalyserMinDecibels = -100.0
	AnalyserMaxDecibels = -30.0

	// IntensityBins and IntensityDivisor map the spectrum to a scale factor.
	IntensityBins    = 20
	IntensityDivisor = 128.0
	NeutralIntensity = 1.0

	TrackMelody = "melody"

	ExtMP3 = ".mp3"
	ExtWAV = ".wav"
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	// iCal Properties
	ICalVersion   = "2.0"
	ICalProdid    = "-//Go Celebrate//Engine//EN"
	ICalMethod    = "PUBLISH"
	ICalScale     = "GREGORIAN"
	ICalComponent = "VALARM"
	ICalAction    = "DISPLAY"
	ICalDomain    = "gocelebrate"

	// iCal/vCard Fields
	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDTStart     = "DTSTART"
	PropDTEnd       = "DTEND"
	PropDTStamp     = "DTSTAMP"
	PropAction      = "ACTION"
	PropDescription = "DESCRIPTION"
	PropTrigger     = "TRIGGER"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"

	VCardBDAY = "BDAY"
	VCardFN   = "FN"

	DefaultEventDuration   = 1 * time.Hour
	DefaultReminderTrigger = "-PT10M"
)

// -----------------------------------------------------------------------------
// Data Formats & Limits
// -----------------------------------------------------------------------------

const (
	// Date layouts used for parsing vCard BDAY fields and the target flag
	DateFormatFullDash  = "2006-01-02"
	DateFormatFullBasic = "20060102"
	DateFormatRFC3339   = time.RFC3339
	DateFormatFullT     = "2006-01-02T15:04:05Z"
	DateFormatLocalT    = "2006-01-02T15:04:05"
	DateFormatLocal     = "2006-01-02 15:04"
	DateFormatNoYearD   = "--01-02"
	DateFormatNoYearB   = "--0102"

	// UID Generation
	UIDHashLength   = 16
	FormatHashInput = "%s|%s|%s"
	FormatUID       = "%x@%s"

	FormatTwoDigits = "%02d"
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrTargetParse        = "unable to parse target instant"
	ErrVCardOpen          = "failed to open vCard file"
	ErrVCardParse         = "failed to parse vCard stream"
	ErrVCardNoBirthday    = "no contact with a usable birthday found"
	ErrICalEncode         = "failed to encode iCalendar data"
	ErrExportWrite        = "failed to write calendar file"
	ErrDateParse          = "unable to parse date"
	ErrManifestRead       = "failed to read memories manifest"
	ErrManifestParse      = "failed to parse memories manifest"
	ErrFormatUnsupported  = "unsupported audio format"
	ErrTrackOpen          = "failed to open audio track"
	ErrTrackDecode        = "failed to decode audio track"
	ErrTrackStopped       = "track already stopped"
	ErrSpeakerInit        = "failed to initialize speaker"
	ErrGraphClosed        = "audio graph already closed"
	ErrVisualizerDisabled = "visualizer disabled for this session"
	ErrLogFile            = "failed to open log file"
	ErrCacheDir           = "could not determine user cache dir"
	ErrCreateDir          = "could not create app cache dir"
	ErrAppFailed          = "application failed unexpectedly"
	ErrLocalesAccess      = "failed to access embedded locales"
	ErrLocaleLoad         = "failed to load locale file"
	ErrLocNotInit         = "localizer not initialized"
	ErrEnvParse           = "invalid environment configuration"
)

// -----------------------------------------------------------------------------
// Fallbacks & Log Messages
// -----------------------------------------------------------------------------

const (
	FallbackName    = "Friend"
	FallbackSummary = "Birthday: %s"

	MsgAppStarting       = "Starting application"
	MsgAppStop           = "Application stopped gracefully"
	MsgCtxCancel         = "Context cancelled, shutting down UI"
	MsgLogWarning        = "Warning: %s at %s: %v\n"
	MsgCountdownDone     = "Countdown reached target"
	MsgStageChanged      = "Celebration stage changed"
	MsgEventIgnored      = "Event ignored in current stage"
	MsgHonoreeLoaded     = "Honoree loaded from vCard"
	MsgHonoreeResolved   = "Honoree resolved from settings"
	MsgStoredVCardFailed = "Remembered vCard unreadable, using stored target"
	MsgSkippedDate       = "Skipping invalid date format"
	MsgExported          = "Calendar event exported"
	MsgManifestDefault   = "No memories manifest, using defaults"
	MsgImageMissing      = "Gallery image missing, using placeholder"
	MsgSpeakerReady      = "Speaker initialized"
	MsgTrackStarted      = "Track added to mixer"
	MsgTrackStopped      = "Track stopped"
	MsgTrackStopFailed   = "Track stop reported an error"
	MsgPlaybackFailed    = "Audio playback failed"
	MsgFallbackMelody    = "Celebration track unavailable, playing synthesized melody"
	MsgGraphFailed       = "Audio graph construction failed, visualizer disabled"
	MsgGraphReleased     = "Audio graph released"
	MsgGraphCloseFailed  = "Audio graph release reported an error"
	MsgVisualizerStarted = "Visualizer sampling started"
	MsgMobileDeferred    = "Mobile device, waiting for user gesture before playback"
	MsgViewTeardown      = "Tearing down celebration views"
	MsgViewsBuilt        = "Celebration views built"
	MsgLangUnsupported   = "Unsupported language ignored"
	MsgApplyEffect       = "Applying stage effect"
	MsgLocaleSkip        = "Skipping non-locale file"
	MsgLocaleBadName     = "Skipping malformed locale filename"
	MsgLocaleLoaded      = "Locale loaded successfully"
	MsgTransMissing      = "Missing translation key"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent  = "component"
	LogKeyError      = "error"
	LogKeyFile       = "file"
	LogKeyLang       = "lang"
	LogKeyKey        = "key"
	LogKeyValue      = "value"
	LogKeyName       = "name"
	LogKeyTarget     = "target"
	LogKeyFrom       = "from"
	LogKeyTo         = "to"
	LogKeyEvent      = "event"
	LogKeyEffect     = "effect"
	LogKeyStage      = "stage"
	LogKeyTrack      = "track"
	LogKeyPaused     = "paused"
	LogKeySampleRate = "sample_rate"
	LogKeyBins       = "bins"
	LogKeySizeBytes  = "size_bytes"
	LogKeyCount      = "count"
	LogKeyMobile     = "mobile"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
	LogKeyCommit  = "commit"
	LogKeyDate    = "date"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompUI         = "ui"
	CompEngine     = "engine"
	CompController = "controller"
	CompGallery    = "gallery"
	CompAudio      = "audio"
	CompVisualizer = "visualizer"
	CompMain       = "main"
	CompI18n       = "i18n"
)

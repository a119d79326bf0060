package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

// Color palette (gruvbox dark: warm, muted, easy on eyes)
const (
	colorReset = "\x1b[0m"
	colorBold  = "\x1b[1m"

	colorFg       = "\x1b[38;5;223m" // Soft cream (#ebdbb2)
	colorAqua     = "\x1b[38;5;108m" // Muted cyan-green (#8ec07c)
	colorOrange   = "\x1b[38;5;208m" // Warm orange (#fe8019)
	colorYellow   = "\x1b[38;5;214m" // Soft yellow (#fabd2f)
	colorGreen    = "\x1b[38;5;142m" // Muted green (#b8bb26)
	colorBlue     = "\x1b[38;5;109m" // Soft blue (#83a598)
	colorRed      = "\x1b[38;5;167m" // Warm red (#fb4934)
	colorRedBg    = "\x1b[48;5;88m"  // Dark red background
	colorYellowBg = "\x1b[48;5;58m"  // Dark yellow background
)

// Stage glyphs colorized inline in messages (⊑ taxonomy, ꩜ run, ✿/❀ open/close, ⊕ merge)
var colorizedGlyphs = []string{"⊑", "꩜", "✿", "❀", "⊕", "⊞", "⊢", "⊔", "✦"}

// minimalEncoder implements a calm, compact console encoder.
// Format: "13:04:35  pipeline  ✿ Fan-out started  fof (24 workers)"
type minimalEncoder struct {
	zapcore.Encoder // Embed a base encoder for field serialization
	buf             *buffer.Buffer
}

func newMinimalEncoder() *minimalEncoder {
	// Create a base JSON encoder for field serialization (internal use only)
	baseEncoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())

	return &minimalEncoder{
		Encoder: baseEncoder,
		buf:     buffer.NewPool().Get(),
	}
}

func (enc *minimalEncoder) Clone() zapcore.Encoder {
	return &minimalEncoder{
		Encoder: enc.Encoder.Clone(),
		buf:     buffer.NewPool().Get(),
	}
}

func (enc *minimalEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	final := buffer.NewPool().Get()

	// Time
	final.AppendString(colorAqua)
	final.AppendString(ent.Time.Format("15:04:05"))
	final.AppendString(colorReset)

	// Level: only show for WARN/ERROR with bold + background
	if ent.Level != zapcore.InfoLevel {
		final.AppendString("  ")
		final.AppendString(levelColorString(ent.Level))
	}

	// Component name (abbreviated) for visual grouping
	if ent.LoggerName != "" {
		final.AppendString("  ")
		final.AppendString(componentColor(ent.LoggerName))
		final.AppendString(abbreviateName(ent.LoggerName))
		final.AppendString(colorReset)
	}

	// Message with stage glyphs highlighted
	final.AppendString("  ")
	final.AppendString(colorizeMessage(ent.Message))

	// Fields: extract and color values
	if len(fields) > 0 {
		if s := extractFieldValues(fields); s != "" {
			final.AppendString("  ")
			final.AppendString(s)
		}
	}

	final.AppendString("\n")
	return final, nil
}

// levelColorString returns bold + colored + background for WARN/ERROR
func levelColorString(level zapcore.Level) string {
	switch level {
	case zapcore.WarnLevel:
		return colorBold + colorYellowBg + colorYellow + "WARN" + colorReset
	case zapcore.ErrorLevel:
		return colorBold + colorRedBg + colorRed + "ERROR" + colorReset
	case zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
		return colorBold + colorRedBg + colorRed + level.CapitalString() + colorReset
	default:
		return ""
	}
}

// componentColor hashes a component name to a stable color so each
// component groups visually across lines
func componentColor(name string) string {
	hash := 0
	for _, c := range name {
		hash += int(c)
	}
	if hash%2 == 0 {
		return colorOrange
	}
	return colorYellow
}

// abbreviateName shortens component names: pipeline -> pipeline, trans.tff -> t.tff
func abbreviateName(name string) string {
	parts := strings.Split(name, ".")
	if len(parts) > 1 {
		return string(parts[0][0]) + "." + strings.Join(parts[1:], ".")
	}
	return name
}

// colorizeMessage highlights stage glyphs embedded in log messages
func colorizeMessage(msg string) string {
	out := msg
	for _, glyph := range colorizedGlyphs {
		out = strings.ReplaceAll(out, glyph, colorGreen+glyph+colorReset)
	}
	return colorFg + out + colorReset
}

// getFieldValue extracts the value from a zap field, handling different field types
func getFieldValue(field zapcore.Field) string {
	if field.Type == zapcore.StringType {
		return field.String
	}

	switch field.Type {
	case zapcore.Int64Type, zapcore.Int32Type, zapcore.Int16Type, zapcore.Int8Type,
		zapcore.Uint64Type, zapcore.Uint32Type, zapcore.Uint16Type, zapcore.Uint8Type:
		return fmt.Sprintf("%d", field.Integer)
	}

	if field.Interface != nil {
		return fmt.Sprintf("%v", field.Interface)
	}

	return ""
}

// extractFieldValues pulls just the values from structured fields.
// Input: {"dialect": "fof", "emitted": 19, "skipped": 2}
// Output: "fof (19 emitted, 2 skipped)" (with colored IDs and numbers)
func extractFieldValues(fields []zapcore.Field) string {
	var values []string
	var emitted, skipped string

	for _, field := range fields {
		switch field.Key {
		case FieldRunID, FieldFormulaID, FieldDialect:
			if val := getFieldValue(field); val != "" {
				values = append(values, colorBlue+val+colorReset)
			}
		case FieldEmitted:
			emitted = getFieldValue(field)
		case FieldSkipped:
			skipped = getFieldValue(field)
		case FieldWorkers:
			if val := getFieldValue(field); val != "" {
				values = append(values, colorGreen+val+colorReset+" workers")
			}
		case FieldDurationMS:
			if val := getFieldValue(field); val != "" {
				values = append(values, colorGreen+val+colorReset+"ms")
			}
		}
	}

	// Special formatting for run stats
	if emitted != "" && skipped != "" {
		values = append(values, colorFg+"("+colorGreen+emitted+colorReset+colorFg+" emitted, "+
			colorGreen+skipped+colorReset+colorFg+" skipped)"+colorReset)
	}

	if len(values) == 0 {
		return ""
	}

	return strings.Join(values, " ")
}

package views

import (
	"strconv"

	"github.com/YoanAncelly/gtfs-viewer/internal/model"
)

type TestResultLine struct {
	Feed    string
	Class   string
	Message string
}

// BuildTestResults renders one line per feed type the backend reported on,
// in the fixed feed order. Results are never aggregated.
func BuildTestResults(translator *Translator, results model.TestResults) []TestResultLine {
	lines := make([]TestResultLine, 0, len(results.Results))

	for _, feedType := range model.FeedTypes {
		result, ok := results.Results[feedType]
		if !ok {
			continue
		}
		lines = append(lines, testResultLine(translator, feedType, result))
	}
	return lines
}

func testResultLine(translator *Translator, feedType model.FeedType, result model.FeedTestResult) TestResultLine {
	line := TestResultLine{Feed: feedType.DisplayName()}

	switch {
	case result.Unknown:
		line.Class = "test-neutral"
		line.Message = translator.Text(MsgTestUnknown)
	case result.Success:
		line.Class = "test-success"
		line.Message = translator.Text(MsgTestOK)
		if result.StatusCode != 0 {
			line.Message = translator.Text(MsgTestStatusOK, strconv.Itoa(result.StatusCode))
		}
	default:
		line.Class = "test-error"
		switch {
		case result.Error != "":
			line.Message = translator.Text(MsgTestError, result.Error)
		case result.StatusCode != 0:
			line.Message = translator.Text(MsgTestStatusError, strconv.Itoa(result.StatusCode))
		default:
			line.Message = translator.Text(MsgTestFailed)
		}
	}
	return line
}

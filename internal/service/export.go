package service

import (
	"encoding/csv"
	"io"
	"strings"
	"time"
)

// listSeparator joins multi-select answers in one cell. Options cannot
// contain ';', so a cell splits back into its values.
const listSeparator = "; "

var csvBaseHeader = []string{"User Name", "User Email", "Referral Code", "Referred By", "Submitted At"}

// ExportCSV writes one row per response. Question columns follow the order in
// which question texts are first seen; a question the user did not answer is
// left empty and list answers are joined with "; ".
func ExportCSV(w io.Writer, responses []UserResponse) error {
	var columns []string
	index := map[string]int{}
	for _, r := range responses {
		for _, a := range r.Answers {
			if _, ok := index[a.QuestionText]; !ok {
				index[a.QuestionText] = len(columns)
				columns = append(columns, a.QuestionText)
			}
		}
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(append(append([]string{}, csvBaseHeader...), columns...)); err != nil {
		return err
	}
	for _, r := range responses {
		row := make([]string, len(csvBaseHeader)+len(columns))
		row[0] = r.Name
		row[1] = r.Email
		row[2] = r.ReferralCode
		if r.ReferredBy != nil {
			row[3] = *r.ReferredBy
		}
		row[4] = r.SubmittedAt.UTC().Format(time.RFC3339)
		for _, a := range r.Answers {
			row[len(csvBaseHeader)+index[a.QuestionText]] = strings.Join(a.Values, listSeparator)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

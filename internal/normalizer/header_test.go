package normalizer

import "testing"

func TestLocateHeader(t *testing.T) {
	tests := []struct {
		name      string
		matrix    [][]string
		scanLimit int
		want      int
	}{
		{
			name: "header below banner rows",
			matrix: [][]string{
				{"ACME Bank"},
				{"Statement period: 01.01.2023 - 31.01.2023"},
				{"Дата", "Сумма", "Плательщик", "Назначение"},
				{"01.01.2023", "100", "ООО Ромашка", "оплата"},
			},
			want: 2,
		},
		{
			name: "header at row zero",
			matrix: [][]string{
				{"Date", "Amount", "Purpose"},
				{"01.01.2023", "100", "rent"},
			},
			want: 0,
		},
		{
			name: "tie keeps earliest row",
			matrix: [][]string{
				{"Date", "Amount"},
				{"Date", "Amount"},
			},
			want: 0,
		},
		{
			name:   "no header-like row falls back to zero",
			matrix: [][]string{{"foo"}, {"bar"}, {"baz"}},
			want:   0,
		},
		{
			name:   "empty matrix",
			matrix: [][]string{},
			want:   0,
		},
		{
			name: "denser row wins over partial match",
			matrix: [][]string{
				{"Дата выгрузки: 01.01.2023"},
				{"Дата", "Дебет", "Кредит", "Получатель"},
			},
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LocateHeader(tt.matrix, tt.scanLimit); got != tt.want {
				t.Errorf("LocateHeader() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLocateHeaderScanLimit(t *testing.T) {
	// A header buried below the scan limit is never considered.
	matrix := make([][]string, 0, 35)
	for i := 0; i < 34; i++ {
		matrix = append(matrix, []string{"noise"})
	}
	matrix = append(matrix, []string{"Date", "Amount", "Purpose"})

	if got := LocateHeader(matrix, 30); got != 0 {
		t.Errorf("LocateHeader() = %d, want fallback 0", got)
	}
	if got := LocateHeader(matrix, 0); got != 0 {
		t.Errorf("LocateHeader() with default limit = %d, want 0", got)
	}
	if got := LocateHeader(matrix, 40); got != 34 {
		t.Errorf("LocateHeader() with raised limit = %d, want 34", got)
	}
}

func TestMapColumns(t *testing.T) {
	header := []string{"Дата", "Сумма", "Плательщик", "ИНН", "Назначение", "Получатель"}
	cols := MapColumns(header)

	want := ColumnMap{
		KeyDate:     0,
		KeyAmount:   1,
		KeyDebit:    NotFound,
		KeyCredit:   NotFound,
		KeyPayer:    2,
		KeyINN:      3,
		KeyPurpose:  4,
		KeyReceiver: 5,
	}
	for key, idx := range want {
		if cols[key] != idx {
			t.Errorf("cols[%s] = %d, want %d", key, cols[key], idx)
		}
	}
}

func TestMapColumnsFirstMatchWins(t *testing.T) {
	// A duplicate header never overwrites an earlier assignment.
	cols := MapColumns([]string{"Date", "Operation date", "Amount"})
	if cols[KeyDate] != 0 {
		t.Errorf("cols[date] = %d, want 0", cols[KeyDate])
	}

	// A label matching several keys claims the column for all of them,
	// so a later dedicated column can arrive too late. Deliberate policy.
	cols = MapColumns([]string{"БИН получателя", "Получатель"})
	if cols[KeyINN] != 0 {
		t.Errorf("cols[inn] = %d, want 0", cols[KeyINN])
	}
	if cols[KeyReceiver] != 0 {
		t.Errorf("cols[receiver] = %d, want 0", cols[KeyReceiver])
	}
}

func TestMapColumnsEmptyHeader(t *testing.T) {
	cols := MapColumns(nil)
	for _, rule := range vocabulary {
		if cols[rule.key] != NotFound {
			t.Errorf("cols[%s] = %d, want NotFound", rule.key, cols[rule.key])
		}
	}
}

package store

// DefaultSeed returns the words inserted when the table is first created.
func DefaultSeed() []string {
	return []string{
		"Android",
		"Adapter",
		"ListView",
		"AsyncTask",
		"Android Studio",
		"SQLiteDatabase",
		"SQLOpenHelper",
		"Data model",
		"ViewHolder",
		"AndroidPerformance",
		"OnClickListener",
	}
}

package domain

type SetupOptions struct {
	Drop     bool `json:"drop_schema"`
	Create   bool `json:"create_schema"`
	Populate bool `json:"populate_data"`
}

func (o SetupOptions) Validate() error {
	if o.Drop && !o.Create {
		return Validation("cannot drop schema without creating schema")
	}
	return nil
}

// TableFlags records, per table, whether an action was actually performed.
type TableFlags struct {
	Hotels   bool `json:"hotels"`
	Visitors bool `json:"visitors"`
	Bookings bool `json:"bookings"`
}

func (f TableFlags) Any() bool { return f.Hotels || f.Visitors || f.Bookings }

type SetupReport struct {
	Success      bool       `json:"success"`
	DropSchema   bool       `json:"drop_schema"`
	CreateSchema TableFlags `json:"create_schema"`
	PopulateData TableFlags `json:"populate_data"`
}

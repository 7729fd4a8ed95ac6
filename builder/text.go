package builder

// Text marshaling lets styles appear as their string forms in JSON
// configuration files.

func (c Color) MarshalText() ([]byte, error) { return []byte(c.Hex()), nil }

func (c *Color) UnmarshalText(b []byte) error {
	v, err := ParseColor(string(b))
	if err == nil {
		*c = v
	}
	return err
}

func (c LineCap) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *LineCap) UnmarshalText(b []byte) error {
	v, err := ParseLineCap(string(b))
	if err == nil {
		*c = v
	}
	return err
}

func (j LineJoin) MarshalText() ([]byte, error) { return []byte(j.String()), nil }

func (j *LineJoin) UnmarshalText(b []byte) error {
	v, err := ParseLineJoin(string(b))
	if err == nil {
		*j = v
	}
	return err
}

func (s LineStyle) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *LineStyle) UnmarshalText(b []byte) error {
	v, err := ParseLineStyle(string(b))
	if err == nil {
		*s = v
	}
	return err
}

func (p DashPattern) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *DashPattern) UnmarshalText(b []byte) error {
	v, err := ParseDashPattern(string(b))
	if err == nil {
		*p = v
	}
	return err
}

func (m PaintMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *PaintMode) UnmarshalText(b []byte) error {
	v, err := ParsePaintMode(string(b))
	if err == nil {
		*m = v
	}
	return err
}

func (w WindingOrder) MarshalText() ([]byte, error) { return []byte(w.String()), nil }

func (w *WindingOrder) UnmarshalText(b []byte) error {
	v, err := ParseWindingOrder(string(b))
	if err == nil {
		*w = v
	}
	return err
}

package msr

// TemperatureTarget holds the decoded MSR_TEMPERATURE_TARGET fields.
// Target is TjMax in degrees Celsius, the junction temperature the DTS
// offset is subtracted from.
type TemperatureTarget struct {
	Target uint8
}

// ThermStatus holds the decoded IA32_THERM_STATUS fields. The twelve
// status/log flags occupy bits 0..11, DTS bits 23:16, Resolution bits
// 30:26 and ReadingValid bit 31.
type ThermStatus struct {
	StatusBit       bool
	StatusLog       bool
	PROCHOT         bool
	PROCHOTLog      bool
	CriticalTemp    bool
	CriticalTempLog bool
	Threshold1      bool
	Threshold1Log   bool
	Threshold2      bool
	Threshold2Log   bool
	PowerLimit      bool
	PowerLimitLog   bool
	DTS             uint8
	Resolution      uint8
	ReadingValid    bool
}

// DecodeTemperatureTarget extracts the thermal target from a raw
// MSR_TEMPERATURE_TARGET value.
func DecodeTemperatureTarget(raw uint64) TemperatureTarget {
	return TemperatureTarget{
		Target: uint8(raw >> 16),
	}
}

// DecodeThermStatus extracts the thermal status fields from a raw
// IA32_THERM_STATUS value.
func DecodeThermStatus(raw uint64) ThermStatus {
	return ThermStatus{
		StatusBit:       bit(raw, 0),
		StatusLog:       bit(raw, 1),
		PROCHOT:         bit(raw, 2),
		PROCHOTLog:      bit(raw, 3),
		CriticalTemp:    bit(raw, 4),
		CriticalTempLog: bit(raw, 5),
		Threshold1:      bit(raw, 6),
		Threshold1Log:   bit(raw, 7),
		Threshold2:      bit(raw, 8),
		Threshold2Log:   bit(raw, 9),
		PowerLimit:      bit(raw, 10),
		PowerLimitLog:   bit(raw, 11),
		DTS:             uint8(raw >> 16),
		Resolution:      uint8(raw>>26) & 0x1F,
		ReadingValid:    bit(raw, 31),
	}
}

func bit(raw uint64, n uint) bool {
	return raw>>n&1 == 1
}

package dtag

// Entry is one row of the data dictionary: tag, case-sensitive keyword, and
// the VR used when the transfer syntax does not encode VRs on the wire.
type Entry struct {
	Tag     Tag
	Keyword string
	VR      string
}

// dictionary covers the header attributes this tool is expected to inspect
// and rewrite. It is built once and never mutated.
var dictionary = []Entry{
	{Tag{0x0002, 0x0000}, "FileMetaInformationGroupLength", "UL"},
	{Tag{0x0002, 0x0001}, "FileMetaInformationVersion", "OB"},
	{Tag{0x0002, 0x0002}, "MediaStorageSOPClassUID", "UI"},
	{Tag{0x0002, 0x0003}, "MediaStorageSOPInstanceUID", "UI"},
	{Tag{0x0002, 0x0010}, "TransferSyntaxUID", "UI"},
	{Tag{0x0002, 0x0012}, "ImplementationClassUID", "UI"},
	{Tag{0x0002, 0x0013}, "ImplementationVersionName", "SH"},

	{Tag{0x0008, 0x0005}, "SpecificCharacterSet", "CS"},
	{Tag{0x0008, 0x0008}, "ImageType", "CS"},
	{Tag{0x0008, 0x0012}, "InstanceCreationDate", "DA"},
	{Tag{0x0008, 0x0013}, "InstanceCreationTime", "TM"},
	{Tag{0x0008, 0x0016}, "SOPClassUID", "UI"},
	{Tag{0x0008, 0x0018}, "SOPInstanceUID", "UI"},
	{Tag{0x0008, 0x0020}, "StudyDate", "DA"},
	{Tag{0x0008, 0x0021}, "SeriesDate", "DA"},
	{Tag{0x0008, 0x0022}, "AcquisitionDate", "DA"},
	{Tag{0x0008, 0x0023}, "ContentDate", "DA"},
	{Tag{0x0008, 0x0030}, "StudyTime", "TM"},
	{Tag{0x0008, 0x0031}, "SeriesTime", "TM"},
	{Tag{0x0008, 0x0032}, "AcquisitionTime", "TM"},
	{Tag{0x0008, 0x0033}, "ContentTime", "TM"},
	{Tag{0x0008, 0x0050}, "AccessionNumber", "SH"},
	{Tag{0x0008, 0x0060}, "Modality", "CS"},
	{Tag{0x0008, 0x0070}, "Manufacturer", "LO"},
	{Tag{0x0008, 0x0080}, "InstitutionName", "LO"},
	{Tag{0x0008, 0x0081}, "InstitutionAddress", "ST"},
	{Tag{0x0008, 0x0090}, "ReferringPhysicianName", "PN"},
	{Tag{0x0008, 0x1010}, "StationName", "SH"},
	{Tag{0x0008, 0x1030}, "StudyDescription", "LO"},
	{Tag{0x0008, 0x103e}, "SeriesDescription", "LO"},
	{Tag{0x0008, 0x1040}, "InstitutionalDepartmentName", "LO"},
	{Tag{0x0008, 0x1050}, "PerformingPhysicianName", "PN"},
	{Tag{0x0008, 0x1070}, "OperatorsName", "PN"},
	{Tag{0x0008, 0x1090}, "ManufacturerModelName", "LO"},
	{Tag{0x0008, 0x1140}, "ReferencedImageSequence", "SQ"},

	{Tag{0x0010, 0x0010}, "PatientName", "PN"},
	{Tag{0x0010, 0x0020}, "PatientID", "LO"},
	{Tag{0x0010, 0x0030}, "PatientBirthDate", "DA"},
	{Tag{0x0010, 0x0040}, "PatientSex", "CS"},
	{Tag{0x0010, 0x1000}, "OtherPatientIDs", "LO"},
	{Tag{0x0010, 0x1010}, "PatientAge", "AS"},
	{Tag{0x0010, 0x1020}, "PatientSize", "DS"},
	{Tag{0x0010, 0x1030}, "PatientWeight", "DS"},
	{Tag{0x0010, 0x1040}, "PatientAddress", "LO"},
	{Tag{0x0010, 0x2160}, "EthnicGroup", "SH"},
	{Tag{0x0010, 0x4000}, "PatientComments", "LT"},

	{Tag{0x0018, 0x0015}, "BodyPartExamined", "CS"},
	{Tag{0x0018, 0x0050}, "SliceThickness", "DS"},
	{Tag{0x0018, 0x0060}, "KVP", "DS"},
	{Tag{0x0018, 0x1000}, "DeviceSerialNumber", "LO"},
	{Tag{0x0018, 0x1020}, "SoftwareVersions", "LO"},
	{Tag{0x0018, 0x1030}, "ProtocolName", "LO"},

	{Tag{0x0020, 0x000d}, "StudyInstanceUID", "UI"},
	{Tag{0x0020, 0x000e}, "SeriesInstanceUID", "UI"},
	{Tag{0x0020, 0x0010}, "StudyID", "SH"},
	{Tag{0x0020, 0x0011}, "SeriesNumber", "IS"},
	{Tag{0x0020, 0x0012}, "AcquisitionNumber", "IS"},
	{Tag{0x0020, 0x0013}, "InstanceNumber", "IS"},
	{Tag{0x0020, 0x0032}, "ImagePositionPatient", "DS"},
	{Tag{0x0020, 0x0037}, "ImageOrientationPatient", "DS"},
	{Tag{0x0020, 0x0052}, "FrameOfReferenceUID", "UI"},
	{Tag{0x0020, 0x1040}, "PositionReferenceIndicator", "LO"},

	{Tag{0x0028, 0x0002}, "SamplesPerPixel", "US"},
	{Tag{0x0028, 0x0004}, "PhotometricInterpretation", "CS"},
	{Tag{0x0028, 0x0010}, "Rows", "US"},
	{Tag{0x0028, 0x0011}, "Columns", "US"},
	{Tag{0x0028, 0x0030}, "PixelSpacing", "DS"},
	{Tag{0x0028, 0x0100}, "BitsAllocated", "US"},
	{Tag{0x0028, 0x0101}, "BitsStored", "US"},
	{Tag{0x0028, 0x0102}, "HighBit", "US"},
	{Tag{0x0028, 0x0103}, "PixelRepresentation", "US"},
	{Tag{0x0028, 0x1050}, "WindowCenter", "DS"},
	{Tag{0x0028, 0x1051}, "WindowWidth", "DS"},
	{Tag{0x0028, 0x1052}, "RescaleIntercept", "DS"},
	{Tag{0x0028, 0x1053}, "RescaleSlope", "DS"},

	{Tag{0x0032, 0x1060}, "RequestedProcedureDescription", "LO"},
	{Tag{0x0040, 0x0253}, "PerformedProcedureStepID", "SH"},
	{Tag{0x0040, 0x0275}, "RequestAttributesSequence", "SQ"},

	{Tag{0x7fe0, 0x0010}, "PixelData", "OW"},
}

var (
	entriesByTag     = map[Tag]Entry{}
	entriesByKeyword = map[string]Entry{}
)

func init() {
	for _, entry := range dictionary {
		entriesByTag[entry.Tag] = entry
		entriesByKeyword[entry.Keyword] = entry
	}
}

// Find returns the dictionary entry for a tag.
func Find(tag Tag) (Entry, bool) {
	entry, ok := entriesByTag[tag]
	return entry, ok
}

// FindByKeyword resolves a case-sensitive dictionary keyword.
func FindByKeyword(keyword string) (Entry, bool) {
	entry, ok := entriesByKeyword[keyword]
	return entry, ok
}

// Keyword returns the dictionary keyword for a tag, or "" if the tag is not
// in the dictionary.
func Keyword(tag Tag) string {
	entry, ok := entriesByTag[tag]
	if !ok {
		return ""
	}
	return entry.Keyword
}

// ImplicitVR returns the VR code assumed for a tag under implicit-VR
// transfer syntaxes. Group length elements are always UL; tags outside the
// dictionary fall back to UN.
func ImplicitVR(tag Tag) string {
	if tag.IsGroupLength() {
		return "UL"
	}
	entry, ok := entriesByTag[tag]
	if !ok {
		return "UN"
	}
	return entry.VR
}

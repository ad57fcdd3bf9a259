package tag

import "github.com/codeninja55/go-radx/dicom/vr"

// TagDict is the standard DICOM data element dictionary (PS3.6).
//
// This is a curated subset of the full registry covering the attributes
// exercised by file meta information, the patient/study/series/instance
// IE, pixel data description, and the Unified Procedure Step worklist
// attributes. Unknown tags outside this set still decode correctly;
// Find falls back to a generic group-length entry or an error, and the
// element parser uses the explicit VR on the wire (or BytesValue) when
// Implicit VR Little Endian is in play and the tag is unlisted.
var TagDict = map[Tag]Info{
	// File Meta Information (Group 0002)
	New(0x0002, 0x0000): {Tag: New(0x0002, 0x0000), VRs: []vr.VR{vr.UnsignedLong}, Name: "File Meta Information Group Length", Keyword: "FileMetaInformationGroupLength", VM: "1"},
	New(0x0002, 0x0001): {Tag: New(0x0002, 0x0001), VRs: []vr.VR{vr.OtherByte}, Name: "File Meta Information Version", Keyword: "FileMetaInformationVersion", VM: "1"},
	New(0x0002, 0x0002): {Tag: New(0x0002, 0x0002), VRs: []vr.VR{vr.UniqueIdentifier}, Name: "Media Storage SOP Class UID", Keyword: "MediaStorageSOPClassUID", VM: "1"},
	New(0x0002, 0x0003): {Tag: New(0x0002, 0x0003), VRs: []vr.VR{vr.UniqueIdentifier}, Name: "Media Storage SOP Instance UID", Keyword: "MediaStorageSOPInstanceUID", VM: "1"},
	New(0x0002, 0x0010): {Tag: New(0x0002, 0x0010), VRs: []vr.VR{vr.UniqueIdentifier}, Name: "Transfer Syntax UID", Keyword: "TransferSyntaxUID", VM: "1"},
	New(0x0002, 0x0012): {Tag: New(0x0002, 0x0012), VRs: []vr.VR{vr.UniqueIdentifier}, Name: "Implementation Class UID", Keyword: "ImplementationClassUID", VM: "1"},
	New(0x0002, 0x0013): {Tag: New(0x0002, 0x0013), VRs: []vr.VR{vr.ShortString}, Name: "Implementation Version Name", Keyword: "ImplementationVersionName", VM: "1"},
	New(0x0002, 0x0016): {Tag: New(0x0002, 0x0016), VRs: []vr.VR{vr.ApplicationEntity}, Name: "Source Application Entity Title", Keyword: "SourceApplicationEntityTitle", VM: "1"},

	// Identifying (Group 0008)
	New(0x0008, 0x0005): {Tag: New(0x0008, 0x0005), VRs: []vr.VR{vr.CodeString}, Name: "Specific Character Set", Keyword: "SpecificCharacterSet", VM: "1-n"},
	New(0x0008, 0x0016): {Tag: New(0x0008, 0x0016), VRs: []vr.VR{vr.UniqueIdentifier}, Name: "SOP Class UID", Keyword: "SOPClassUID", VM: "1"},
	New(0x0008, 0x0018): {Tag: New(0x0008, 0x0018), VRs: []vr.VR{vr.UniqueIdentifier}, Name: "SOP Instance UID", Keyword: "SOPInstanceUID", VM: "1"},
	New(0x0008, 0x0020): {Tag: New(0x0008, 0x0020), VRs: []vr.VR{vr.Date}, Name: "Study Date", Keyword: "StudyDate", VM: "1"},
	New(0x0008, 0x0021): {Tag: New(0x0008, 0x0021), VRs: []vr.VR{vr.Date}, Name: "Series Date", Keyword: "SeriesDate", VM: "1"},
	New(0x0008, 0x0030): {Tag: New(0x0008, 0x0030), VRs: []vr.VR{vr.Time}, Name: "Study Time", Keyword: "StudyTime", VM: "1"},
	New(0x0008, 0x0050): {Tag: New(0x0008, 0x0050), VRs: []vr.VR{vr.ShortString}, Name: "Accession Number", Keyword: "AccessionNumber", VM: "1"},
	New(0x0008, 0x0060): {Tag: New(0x0008, 0x0060), VRs: []vr.VR{vr.CodeString}, Name: "Modality", Keyword: "Modality", VM: "1"},
	New(0x0008, 0x0070): {Tag: New(0x0008, 0x0070), VRs: []vr.VR{vr.LongString}, Name: "Manufacturer", Keyword: "Manufacturer", VM: "1"},
	New(0x0008, 0x0090): {Tag: New(0x0008, 0x0090), VRs: []vr.VR{vr.PersonName}, Name: "Referring Physician's Name", Keyword: "ReferringPhysicianName", VM: "1"},
	New(0x0008, 0x0201): {Tag: New(0x0008, 0x0201), VRs: []vr.VR{vr.ShortString}, Name: "Timezone Offset From UTC", Keyword: "TimezoneOffsetFromUTC", VM: "1"},
	New(0x0008, 0x1030): {Tag: New(0x0008, 0x1030), VRs: []vr.VR{vr.LongString}, Name: "Study Description", Keyword: "StudyDescription", VM: "1"},
	New(0x0008, 0x103E): {Tag: New(0x0008, 0x103E), VRs: []vr.VR{vr.LongString}, Name: "Series Description", Keyword: "SeriesDescription", VM: "1"},

	// Patient (Group 0010)
	New(0x0010, 0x0010): {Tag: New(0x0010, 0x0010), VRs: []vr.VR{vr.PersonName}, Name: "Patient's Name", Keyword: "PatientName", VM: "1"},
	New(0x0010, 0x0020): {Tag: New(0x0010, 0x0020), VRs: []vr.VR{vr.LongString}, Name: "Patient ID", Keyword: "PatientID", VM: "1"},
	New(0x0010, 0x0030): {Tag: New(0x0010, 0x0030), VRs: []vr.VR{vr.Date}, Name: "Patient's Birth Date", Keyword: "PatientBirthDate", VM: "1"},
	New(0x0010, 0x0040): {Tag: New(0x0010, 0x0040), VRs: []vr.VR{vr.CodeString}, Name: "Patient's Sex", Keyword: "PatientSex", VM: "1"},
	New(0x0010, 0x1010): {Tag: New(0x0010, 0x1010), VRs: []vr.VR{vr.AgeString}, Name: "Patient's Age", Keyword: "PatientAge", VM: "1"},
	New(0x0010, 0x1030): {Tag: New(0x0010, 0x1030), VRs: []vr.VR{vr.DecimalString}, Name: "Patient's Weight", Keyword: "PatientWeight", VM: "1"},

	// Study / Series / Equipment / Frame of Reference (0020)
	New(0x0020, 0x000D): {Tag: New(0x0020, 0x000D), VRs: []vr.VR{vr.UniqueIdentifier}, Name: "Study Instance UID", Keyword: "StudyInstanceUID", VM: "1"},
	New(0x0020, 0x000E): {Tag: New(0x0020, 0x000E), VRs: []vr.VR{vr.UniqueIdentifier}, Name: "Series Instance UID", Keyword: "SeriesInstanceUID", VM: "1"},
	New(0x0020, 0x0010): {Tag: New(0x0020, 0x0010), VRs: []vr.VR{vr.ShortString}, Name: "Study ID", Keyword: "StudyID", VM: "1"},
	New(0x0020, 0x0011): {Tag: New(0x0020, 0x0011), VRs: []vr.VR{vr.IntegerString}, Name: "Series Number", Keyword: "SeriesNumber", VM: "1"},
	New(0x0020, 0x0013): {Tag: New(0x0020, 0x0013), VRs: []vr.VR{vr.IntegerString}, Name: "Instance Number", Keyword: "InstanceNumber", VM: "1"},
	New(0x0020, 0x0052): {Tag: New(0x0020, 0x0052), VRs: []vr.VR{vr.UniqueIdentifier}, Name: "Frame of Reference UID", Keyword: "FrameOfReferenceUID", VM: "1"},

	// Image Pixel module (0028)
	New(0x0028, 0x0002): {Tag: New(0x0028, 0x0002), VRs: []vr.VR{vr.UnsignedShort}, Name: "Samples per Pixel", Keyword: "SamplesPerPixel", VM: "1"},
	New(0x0028, 0x0004): {Tag: New(0x0028, 0x0004), VRs: []vr.VR{vr.CodeString}, Name: "Photometric Interpretation", Keyword: "PhotometricInterpretation", VM: "1"},
	New(0x0028, 0x0006): {Tag: New(0x0028, 0x0006), VRs: []vr.VR{vr.UnsignedShort}, Name: "Planar Configuration", Keyword: "PlanarConfiguration", VM: "1"},
	New(0x0028, 0x0008): {Tag: New(0x0028, 0x0008), VRs: []vr.VR{vr.IntegerString}, Name: "Number of Frames", Keyword: "NumberOfFrames", VM: "1"},
	New(0x0028, 0x0010): {Tag: New(0x0028, 0x0010), VRs: []vr.VR{vr.UnsignedShort}, Name: "Rows", Keyword: "Rows", VM: "1"},
	New(0x0028, 0x0011): {Tag: New(0x0028, 0x0011), VRs: []vr.VR{vr.UnsignedShort}, Name: "Columns", Keyword: "Columns", VM: "1"},
	New(0x0028, 0x0030): {Tag: New(0x0028, 0x0030), VRs: []vr.VR{vr.DecimalString}, Name: "Pixel Spacing", Keyword: "PixelSpacing", VM: "2"},
	New(0x0028, 0x0100): {Tag: New(0x0028, 0x0100), VRs: []vr.VR{vr.UnsignedShort}, Name: "Bits Allocated", Keyword: "BitsAllocated", VM: "1"},
	New(0x0028, 0x0101): {Tag: New(0x0028, 0x0101), VRs: []vr.VR{vr.UnsignedShort}, Name: "Bits Stored", Keyword: "BitsStored", VM: "1"},
	New(0x0028, 0x0102): {Tag: New(0x0028, 0x0102), VRs: []vr.VR{vr.UnsignedShort}, Name: "High Bit", Keyword: "HighBit", VM: "1"},
	New(0x0028, 0x0103): {Tag: New(0x0028, 0x0103), VRs: []vr.VR{vr.UnsignedShort}, Name: "Pixel Representation", Keyword: "PixelRepresentation", VM: "1"},
	New(0x0028, 0x1050): {Tag: New(0x0028, 0x1050), VRs: []vr.VR{vr.DecimalString}, Name: "Window Center", Keyword: "WindowCenter", VM: "1-n"},
	New(0x0028, 0x1051): {Tag: New(0x0028, 0x1051), VRs: []vr.VR{vr.DecimalString}, Name: "Window Width", Keyword: "WindowWidth", VM: "1-n"},
	New(0x0028, 0x1052): {Tag: New(0x0028, 0x1052), VRs: []vr.VR{vr.DecimalString}, Name: "Rescale Intercept", Keyword: "RescaleIntercept", VM: "1"},
	New(0x0028, 0x1053): {Tag: New(0x0028, 0x1053), VRs: []vr.VR{vr.DecimalString}, Name: "Rescale Slope", Keyword: "RescaleSlope", VM: "1"},
	New(0x0028, 0x1054): {Tag: New(0x0028, 0x1054), VRs: []vr.VR{vr.LongString}, Name: "Rescale Type", Keyword: "RescaleType", VM: "1"},
	New(0x0028, 0x1101): {Tag: New(0x0028, 0x1101), VRs: []vr.VR{vr.UnsignedShort}, Name: "Red Palette Color Lookup Table Descriptor", Keyword: "RedPaletteColorLookupTableDescriptor", VM: "3"},
	New(0x0028, 0x1201): {Tag: New(0x0028, 0x1201), VRs: []vr.VR{vr.OtherWord}, Name: "Red Palette Color Lookup Table Data", Keyword: "RedPaletteColorLookupTableData", VM: "1"},
	New(0x0028, 0x2110): {Tag: New(0x0028, 0x2110), VRs: []vr.VR{vr.CodeString}, Name: "Lossy Image Compression", Keyword: "LossyImageCompression", VM: "1"},
	New(0x0028, 0x3010): {Tag: New(0x0028, 0x3010), VRs: []vr.VR{vr.SequenceOfItems}, Name: "VOI LUT Sequence", Keyword: "VOILUTSequence", VM: "1"},
	New(0x7FE0, 0x0010): {Tag: New(0x7FE0, 0x0010), VRs: []vr.VR{vr.OtherByte, vr.OtherWord}, Name: "Pixel Data", Keyword: "PixelData", VM: "1"},

	// Presentation LUT (2050)
	New(0x2050, 0x0020): {Tag: New(0x2050, 0x0020), VRs: []vr.VR{vr.CodeString}, Name: "Presentation LUT Shape", Keyword: "PresentationLUTShape", VM: "1"},

	// Overlay / sequence item delimiters are handled structurally, not via the dictionary.

	// Unified Procedure Step (0074 / 0040)
	New(0x0040, 0xA370): {Tag: New(0x0040, 0xA370), VRs: []vr.VR{vr.SequenceOfItems}, Name: "Referenced Request Sequence", Keyword: "ReferencedRequestSequence", VM: "1"},
	New(0x0074, 0x1000): {Tag: New(0x0074, 0x1000), VRs: []vr.VR{vr.CodeString}, Name: "Procedure Step State", Keyword: "ProcedureStepState", VM: "1"},
	New(0x0074, 0x1002): {Tag: New(0x0074, 0x1002), VRs: []vr.VR{vr.SequenceOfItems}, Name: "Progress Information Sequence", Keyword: "ProgressInformationSequence", VM: "1"},
	New(0x0074, 0x1004): {Tag: New(0x0074, 0x1004), VRs: []vr.VR{vr.LongString}, Name: "Procedure Step Progress", Keyword: "ProcedureStepProgress", VM: "1"},
	New(0x0074, 0x1006): {Tag: New(0x0074, 0x1006), VRs: []vr.VR{vr.ShortText}, Name: "Procedure Step Progress Description", Keyword: "ProcedureStepProgressDescription", VM: "1"},
	New(0x0074, 0x1007): {Tag: New(0x0074, 0x1007), VRs: []vr.VR{vr.SequenceOfItems}, Name: "Procedure Step Communications URI Sequence", Keyword: "ProcedureStepCommunicationsURISequence", VM: "1"},
	New(0x0074, 0x1200): {Tag: New(0x0074, 0x1200), VRs: []vr.VR{vr.CodeString}, Name: "Scheduled Procedure Step Priority", Keyword: "ScheduledProcedureStepPriority", VM: "1"},
	New(0x0074, 0x1202): {Tag: New(0x0074, 0x1202), VRs: []vr.VR{vr.LongString}, Name: "Worklist Label", Keyword: "WorklistLabel", VM: "1"},
	New(0x0074, 0x1204): {Tag: New(0x0074, 0x1204), VRs: []vr.VR{vr.LongString}, Name: "Procedure Step Label", Keyword: "ProcedureStepLabel", VM: "1"},
	New(0x0074, 0x1210): {Tag: New(0x0074, 0x1210), VRs: []vr.VR{vr.SequenceOfItems}, Name: "Scheduled Processing Parameters Sequence", Keyword: "ScheduledProcessingParametersSequence", VM: "1"},
	New(0x0074, 0x1212): {Tag: New(0x0074, 0x1212), VRs: []vr.VR{vr.SequenceOfItems}, Name: "Scheduled Station Name Code Sequence", Keyword: "ScheduledStationNameCodeSequence", VM: "1"},
	New(0x0074, 0x1216): {Tag: New(0x0074, 0x1216), VRs: []vr.VR{vr.SequenceOfItems}, Name: "Input Readiness State Code Sequence", Keyword: "InputReadinessStateCodeSequence", VM: "1"},
	New(0x0074, 0x1224): {Tag: New(0x0074, 0x1224), VRs: []vr.VR{vr.SequenceOfItems}, Name: "Replaced Procedure Step Sequence", Keyword: "ReplacedProcedureStepSequence", VM: "1"},
	New(0x0074, 0x1230): {Tag: New(0x0074, 0x1230), VRs: []vr.VR{vr.LongString}, Name: "Procedure Step Label (UPS)", Keyword: "UPSProcedureStepLabel", VM: "1"},
	New(0x0074, 0x1234): {Tag: New(0x0074, 0x1234), VRs: []vr.VR{vr.SequenceOfItems}, Name: "Human Performer Code Sequence", Keyword: "HumanPerformerCodeSequence", VM: "1"},
	New(0x0074, 0x1236): {Tag: New(0x0074, 0x1236), VRs: []vr.VR{vr.LongString}, Name: "Human Performer's Name", Keyword: "HumanPerformerName", VM: "1"},
	New(0x0074, 0x1238): {Tag: New(0x0074, 0x1238), VRs: []vr.VR{vr.LongString}, Name: "Human Performer's Organization", Keyword: "HumanPerformerOrganization", VM: "1"},
	New(0x0074, 0x1242): {Tag: New(0x0074, 0x1242), VRs: []vr.VR{vr.UnsignedLong}, Name: "Procedure Step Cancellation DateTime", Keyword: "ProcedureStepCancellationDateTime", VM: "1"},
	New(0x0074, 0x1300): {Tag: New(0x0074, 0x1300), VRs: []vr.VR{vr.SequenceOfItems}, Name: "Output Destination Sequence", Keyword: "OutputDestinationSequence", VM: "1"},
	New(0x0074, 0x1102): {Tag: New(0x0074, 0x1102), VRs: []vr.VR{vr.DateTime}, Name: "Scheduled Procedure Step Start DateTime", Keyword: "ScheduledProcedureStepStartDateTime", VM: "1"},
	New(0x0074, 0x1104): {Tag: New(0x0074, 0x1104), VRs: []vr.VR{vr.DateTime}, Name: "Scheduled Procedure Step Modification DateTime", Keyword: "ScheduledProcedureStepModificationDateTime", VM: "1"},
	New(0x0074, 0x1520): {Tag: New(0x0074, 0x1520), VRs: []vr.VR{vr.SequenceOfItems}, Name: "Input Information Sequence", Keyword: "InputInformationSequence", VM: "1"},
	New(0x0074, 0x1324): {Tag: New(0x0074, 0x1324), VRs: []vr.VR{vr.LongString}, Name: "Transaction UID", Keyword: "TransactionUID", VM: "1"},

	// Code Sequence macro attributes
	New(0x0008, 0x0100): {Tag: New(0x0008, 0x0100), VRs: []vr.VR{vr.ShortString}, Name: "Code Value", Keyword: "CodeValue", VM: "1"},
	New(0x0008, 0x0102): {Tag: New(0x0008, 0x0102), VRs: []vr.VR{vr.ShortString}, Name: "Coding Scheme Designator", Keyword: "CodingSchemeDesignator", VM: "1"},
	New(0x0008, 0x0104): {Tag: New(0x0008, 0x0104), VRs: []vr.VR{vr.LongString}, Name: "Code Meaning", Keyword: "CodeMeaning", VM: "1"},
}

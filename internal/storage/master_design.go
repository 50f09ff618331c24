package storage

// MasterDesign is one entry of the master-design registry: the canonical
// generic name and default karigar for a design code. An inactive entry is
// treated as "no mapping" during ingestion even though the code exists.
type MasterDesign struct {
	DesignCode  string `json:"design_code"`
	GenericName string `json:"generic_name"`
	KarigarName string `json:"karigar_name"`
	KarigarID   string `json:"karigar_id"`
	IsActive    bool   `json:"is_active"`
}

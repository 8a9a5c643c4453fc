package forest

import (
	models "arbor/internal/domain/models/forest"
	forestSvc "arbor/internal/domain/services/forest"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Payload values are never validated; only the addressing of the intent is.

func validateAddChildRequest(req *forestSvc.AddChildRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.ParentID, validation.Required),
		validation.Field(&req.TopParentID, validation.Required),
	)
}

func validateUpdateFieldRequest(req *forestSvc.UpdateFieldRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.NodeID, validation.Required),
		validation.Field(&req.TopParentID, validation.Required),
		validation.Field(&req.Field,
			validation.Required,
			validation.In(models.FieldName, models.FieldData),
		),
	)
}

func validateDeleteNodeRequest(req *forestSvc.DeleteNodeRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.NodeID, validation.Required),
		validation.Field(&req.TopParentID, validation.Required),
	)
}

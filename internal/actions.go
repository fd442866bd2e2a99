package internal

import (
	draftflow "github.com/ArmandoTL8/draftflow"
)

// actions.go resolves draft action facts from the annotation store. The
// DraftRoot operations hang off the entity set path (no separator before the
// term); the Messages annotation sits on the entity type path.

func resolveActionName(lookup draftflow.AnnotationLookup, entity draftflow.EntityContext, op draftflow.DraftOperation) string {
	metaPath := lookup.MetaPath(entity.Path())
	if metaPath == "" {
		return ""
	}
	value := lookup.Object(metaPath + draftflow.DraftRootTerm + "/" + string(op))
	name, _ := value.(string)
	return name
}

func resolveReturnType(lookup draftflow.AnnotationLookup, entity draftflow.EntityContext, op draftflow.DraftOperation) string {
	metaPath := lookup.MetaPath(entity.Path())
	if metaPath == "" {
		return ""
	}
	value := lookup.Object(metaPath + draftflow.DraftRootTerm + "/" + string(op) + "/$ReturnType")
	returnType, _ := value.(string)
	return returnType
}

func resolveMessagesPath(lookup draftflow.AnnotationLookup, entity draftflow.EntityContext) string {
	metaPath := lookup.MetaPath(entity.Path())
	if metaPath == "" {
		return ""
	}
	value := lookup.Object(metaPath + "/" + draftflow.MessagesTerm + "/$Path")
	path, _ := value.(string)
	return path
}

// createOperation resolves op's qualified action name and binds a
// not-yet-executed operation against entity.
func createOperation(lookup draftflow.AnnotationLookup, entity draftflow.EntityContext, op draftflow.DraftOperation, opts *draftflow.OperationOptions) (draftflow.Operation, error) {
	name := resolveActionName(lookup, entity, op)
	if name == "" {
		return nil, draftflow.NewActionNotDefinedError(entity.Path(), op)
	}
	operation, err := entity.Model().BindOperation(name, entity, opts)
	if err != nil {
		return nil, draftflow.NewExecutionError(entity.Path(), op, err)
	}
	return operation, nil
}

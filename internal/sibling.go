package internal

import (
	"context"
	"sync"

	"go.uber.org/zap"

	draftflow "github.com/ArmandoTL8/draftflow"
)

// ComputeSiblingInformation relocates deepest's navigation chain onto the
// sibling copy of root. For every prefix of the chain that addresses a keyed
// instance, the canonical path of its SiblingEntity navigation is requested;
// the requests run concurrently. 1:1 navigation segments have no sibling
// lookup of their own and keep their name.
//
// A failed canonical-path request means no authorized sibling exists at that
// depth, and the whole computation resolves to (nil, nil) rather than a
// partial result.
func (dm *draftManager) ComputeSiblingInformation(
	ctx context.Context,
	root draftflow.EntityContext,
	deepest draftflow.EntityContext,
) (*draftflow.SiblingInformation, error) {
	rootPath := root.Path()
	fullPath := deepest.Path()

	segments, ok := splitSiblingSegments(rootPath, fullPath)
	if !ok {
		zap.S().Errorw("cannot compute sibling information", "rootPath", rootPath, "path", fullPath)
		return nil, draftflow.NewSiblingPathMismatchError(rootPath, fullPath)
	}
	if max := dm.config.Protocol.MaxSiblingDepth; max > 0 && len(segments) > max {
		return nil, draftflow.NewDraftError(draftflow.ErrorTypeUsage, draftflow.ErrCodeSiblingPathMismatch,
			"navigation chain exceeds the configured sibling depth").WithPath(fullPath)
	}

	ctx, cancel := dm.opContext(ctx)
	defer cancel()

	model := root.Model()
	canonical := make([]string, len(segments))
	failures := make([]error, len(segments))

	var wg sync.WaitGroup
	prefix := ""
	for i, segment := range segments {
		prefix = joinSegment(prefix, segment)
		if !hasKeyPredicate(segment) {
			continue
		}
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			sibling := model.BindContext(path + "/" + draftflow.SiblingEntityNavigation)
			canonical[i], failures[i] = sibling.RequestCanonicalPath(ctx)
		}(i, prefix)
	}
	wg.Wait()

	for i, err := range failures {
		if err != nil {
			zap.S().Debugw("no sibling entity at depth", "depth", i, "path", fullPath, "error", err)
			return nil, nil
		}
	}

	oldPath := ""
	newPath := ""
	mapping := make([]draftflow.PathMapping, 0, len(segments))
	for i, segment := range segments {
		oldPath = joinSegment(oldPath, segment)
		if canonical[i] != "" {
			newPath = joinSegment(newPath, replaceKeyPredicate(segment, canonical[i]))
		} else {
			newPath = joinSegment(newPath, segment)
		}
		mapping = append(mapping, draftflow.PathMapping{OldPath: oldPath, NewPath: newPath})
	}

	return &draftflow.SiblingInformation{
		TargetContext: model.BindContext(newPath),
		PathMapping:   mapping,
	}, nil
}

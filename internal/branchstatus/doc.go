// Package branchstatus measures how far each local branch has drifted from its
// remote counterpart.
//
// Analyzer walks the local branches of one or more repositories, resolves each
// branch's tracking reference (falling back to <remote>/<branch>), counts the
// commits on either side and classifies the pair with Classify. Branches without
// a usable remote reference degrade to explicit statuses instead of failing the run.
package branchstatus

/*
 * Copyright 2018 The QuorumSQL Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package client

import (
	"testing"

	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"
)

type recordingTx struct {
	committed  bool
	rolledBack bool
	commitErr  error
}

func (tx *recordingTx) Commit() error {
	tx.committed = true
	return tx.commitErr
}

func (tx *recordingTx) Rollback() error {
	tx.rolledBack = true
	return errors.New("rollback failed")
}

func TestExecuteInTx(t *testing.T) {
	Convey("commit on success", t, func() {
		tx := &recordingTx{}
		err := ExecuteInTx(tx, func() error { return nil })
		So(err, ShouldBeNil)
		So(tx.committed, ShouldBeTrue)
		So(tx.rolledBack, ShouldBeFalse)
	})
	Convey("commit failure is reported", t, func() {
		tx := &recordingTx{commitErr: errors.New("commit failed")}
		err := ExecuteInTx(tx, func() error { return nil })
		So(err, ShouldEqual, tx.commitErr)
		So(tx.rolledBack, ShouldBeFalse)
	})
	Convey("rollback on error keeps the original error", t, func() {
		tx := &recordingTx{}
		fnErr := errors.New("fn failed")
		err := ExecuteInTx(tx, func() error { return fnErr })
		So(err, ShouldEqual, fnErr)
		So(tx.committed, ShouldBeFalse)
		So(tx.rolledBack, ShouldBeTrue)
	})
}

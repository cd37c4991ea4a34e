// Copyright 2025 Xpect Portal Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package storage

import (
	"github.com/google/wire"
	"github.com/xpect-group/portal/pkg/log"
)

var ProviderSet = wire.NewSet(ProvideStorage, NewOffloader)

func ProvideStorage(conf Conf) (Storage, error) {
	store, err := New(conf)
	if err != nil {
		return nil, err
	}
	if store == nil {
		log.Info("object storage disabled, attachments stay inline")
		return nil, nil
	}
	log.Infow("object storage ready", "provider", conf.Provider, "bucket", conf.Bucket)
	return store, nil
}
